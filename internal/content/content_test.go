package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Modules) != 7 || len(c.FAQ) != 5 || len(c.Testimonials) != 3 || len(c.Benefits) != 6 || len(c.Stats) != 4 {
		t.Fatalf("unexpected catalog sizes: %d modules, %d faq, %d testimonials, %d benefits, %d stats",
			len(c.Modules), len(c.FAQ), len(c.Testimonials), len(c.Benefits), len(c.Stats))
	}
	if c.BonusTotal != "R$98" || c.Price != "R$47" {
		t.Errorf("price %q bonus total %q", c.Price, c.BonusTotal)
	}
	for i, m := range c.Modules {
		if m.Number != i+1 {
			t.Errorf("module %d numbered %d", i, m.Number)
		}
	}
}

func TestParseRejectsWrongBonusCount(t *testing.T) {
	_, err := Parse([]byte(`
price: "R$47"
bonus_total: "R$98"
modules: [{title: "A", lessons: ["x"]}]
faq: [{question: "q", answer: "a"}]
bonuses: [{title: "only one"}]
`))
	if err == nil || !strings.Contains(err.Error(), "bonuses") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseRejectsModuleWithoutLessons(t *testing.T) {
	_, err := Parse([]byte(`
price: "R$47"
bonus_total: "R$98"
modules: [{title: "A"}]
faq: [{question: "q", answer: "a"}]
bonuses: [{title: "1"}, {title: "2"}, {title: "3"}, {title: "4"}, {title: "5"}]
`))
	if err == nil || !strings.Contains(err.Error(), "module 1") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, defaultCatalog, 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Bonuses[4].Value != "R$37/mês" {
		t.Errorf("last bonus value = %q", c.Bonuses[4].Value)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
