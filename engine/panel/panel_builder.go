package panel

// PanelBuilderOption is a functional option for configuring a Panel during construction.
type PanelBuilderOption func(*panel)

// WithTitle sets the panel heading.
//
// Parameters:
//   - title: the heading
//
// Returns:
//   - PanelBuilderOption: functional option to set the title
func WithTitle(title string) PanelBuilderOption {
	return func(p *panel) {
		p.title = title
	}
}

// WithWidth sets the panel width in pixels. Non-positive values are ignored.
//
// Parameters:
//   - width: the width in pixels
//
// Returns:
//   - PanelBuilderOption: functional option to set the width
func WithWidth(width int) PanelBuilderOption {
	return func(p *panel) {
		if width > 0 {
			p.width = width
		}
	}
}

// WithHidden starts the panel hidden.
func WithHidden(hidden bool) PanelBuilderOption {
	return func(p *panel) {
		p.hidden = hidden
	}
}

// WithCloseFolders makes new folders start collapsed.
func WithCloseFolders(closed bool) PanelBuilderOption {
	return func(p *panel) {
		p.closeFolders = closed
	}
}
