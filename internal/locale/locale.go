// Package locale renders the user-visible strings derived from the pantry
// model: section titles and ingredient counts.
package locale

import (
	"fmt"

	"github.com/rpggio/pantry/internal/domain/ingredient"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultDateLayout renders section dates as dd/mm/yyyy.
const DefaultDateLayout = "02/01/2006"

const (
	keyUndated     = "Undated"
	keyEatBy       = "Eat by %s"
	keyItems       = "%d Item"
	keyIngredients = "%d Ingredient"
	keyUnsorted    = "Unsorted Food"
)

var translations = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	must(b.SetString(language.English, keyUndated, "Undated"))
	must(b.SetString(language.English, keyEatBy, "Eat by %s"))
	must(b.SetString(language.English, keyUnsorted, "Unsorted Food"))
	must(b.Set(language.English, keyItems,
		plural.Selectf(1, "%d", "=1", "%d Item", "other", "%d Items")))
	must(b.Set(language.English, keyIngredients,
		plural.Selectf(1, "%d", "=1", "%d Ingredient", "other", "%d Ingredients")))

	must(b.SetString(language.German, keyUndated, "Ohne Datum"))
	must(b.SetString(language.German, keyEatBy, "Essen bis %s"))
	must(b.SetString(language.German, keyUnsorted, "Unsortiertes Essen"))
	must(b.Set(language.German, keyItems,
		plural.Selectf(1, "%d", "other", "%d Artikel")))
	must(b.Set(language.German, keyIngredients,
		plural.Selectf(1, "%d", "=1", "%d Zutat", "other", "%d Zutaten")))

	return b
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("locale catalog: %v", err))
	}
}

// Printer formats display strings for one language.
type Printer struct {
	tag        language.Tag
	dateLayout string
	p          *message.Printer
}

// New returns a printer for a BCP 47 language tag. An empty layout uses DefaultDateLayout.
func New(lang, dateLayout string) (*Printer, error) {
	tag := language.English
	if lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("parsing locale %q: %w", lang, err)
		}
		tag = parsed
	}
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Printer{
		tag:        tag,
		dateLayout: dateLayout,
		p:          message.NewPrinter(tag, message.Catalog(translations)),
	}, nil
}

// Default is the English printer with DefaultDateLayout.
func Default() *Printer {
	p, _ := New("", "")
	return p
}

// Tag returns the printer's language.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// SectionTitle is "Undated" for undated sections, otherwise "Eat by <date>".
func (p *Printer) SectionTitle(d ingredient.Date, dated bool) string {
	if !dated {
		return p.p.Sprintf(keyUndated)
	}
	return p.p.Sprintf(keyEatBy, d.Format(p.dateLayout))
}

// CountLabel renders an ingredient count. The unsorted bucket counts "items".
func (p *Printer) CountLabel(n int, special bool) string {
	if special {
		return p.p.Sprintf(keyItems, n)
	}
	return p.p.Sprintf(keyIngredients, n)
}

// UnsortedTitle is the display name of the unsorted bucket.
func (p *Printer) UnsortedTitle() string {
	return p.p.Sprintf(keyUnsorted)
}

// Date formats d with the printer's date layout.
func (p *Printer) Date(d ingredient.Date) string {
	return d.Format(p.dateLayout)
}
