package dashboard

// HeadingSize selects a heading scale.
type HeadingSize string

const (
	HeadingSmall  HeadingSize = "sm"
	HeadingMedium HeadingSize = "md"
	HeadingLarge  HeadingSize = "lg"
)

// Heading is a centered section title.
type Heading struct {
	Text string
	Size HeadingSize
	// NoMargin drops the bottom margin that headings carry by default.
	NoMargin bool
}

// Classes returns the CSS classes for the heading. Unknown sizes render as md.
func (h Heading) Classes() string {
	var size string
	switch h.Size {
	case HeadingSmall:
		size = "text-xl md:text-2xl lg:text-3xl"
	case HeadingLarge:
		size = "text-4xl md:text-5xl lg:text-6xl"
	default:
		size = "text-3xl md:text-4xl lg:text-5xl"
	}
	base := "text-center font-extrabold tracking-tight text-theme-orange-500"
	if !h.NoMargin {
		base += " mb-12"
	}
	return base + " " + size
}
