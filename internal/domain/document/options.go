package document

import "github.com/rpggio/pantry/internal/locale"

// DefaultSectionOffset reserves the first display slot for the unsorted bucket.
const DefaultSectionOffset = 1

// Option configures a Service.
type Option func(*Service)

// WithStrict makes contract violations (unknown meals or ingredients) return
// errors instead of being logged and ignored.
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithPrinter sets the locale used for titles and count labels.
func WithPrinter(p *locale.Printer) Option {
	return func(s *Service) {
		if p != nil {
			s.printer = p
		}
	}
}

// WithSectionOffset sets the number of display slots reserved ahead of the
// date sections.
func WithSectionOffset(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.offset = n
		}
	}
}
