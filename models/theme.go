package models

// Theme defaults used whenever the theme sheet is missing or a field is blank
const (
	DefaultNavbarBgColor    = "#fff"
	DefaultNavbarIconColor  = "#374151"
	DefaultProductNameColor = "#111827"
	DefaultButtonBgColor    = "#4f46e5, #7c3aed"
	DefaultButtonTextColor  = "#fff"
	DefaultBannerBackground = "#9333ea, #db2777" // purple-600 to pink-600
	DefaultBannerImageGlyph = "🎯"
)

// ThemeRow is one header-keyed row of the theme sheet.
// Tags are the literal column headers.
type ThemeRow struct {
	Logo             string `mapstructure:"Logo"`
	NavbarBgColor    string `mapstructure:"Navbar BgColor"`
	NavbarIconColor  string `mapstructure:"Navbar IconColor"`
	ProductNameColor string `mapstructure:"Product NameColor"`
	ButtonBgColor    string `mapstructure:"Button BgColor"`
	ButtonTextColor  string `mapstructure:"Button TextColor"`
	BannerTitle      string `mapstructure:"Banner Title"`
	BannerSubtitle   string `mapstructure:"Banner Subtitle"`
	BannerBackground string `mapstructure:"Banner Background"`
	BannerImages     string `mapstructure:"Banner Images"`
}

// NavbarTheme holds navigation bar colors
type NavbarTheme struct {
	BgColor   string `json:"bgColor"`
	IconColor string `json:"iconColor"`
}

// ProductTheme holds product card colors
type ProductTheme struct {
	NameColor string `json:"nameColor"`
}

// ButtonTheme holds call-to-action button colors
type ButtonTheme struct {
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

// Banner represents one promotional carousel slide
type Banner struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Background string `json:"bg"`
	Image      string `json:"image"`    // Glyph shown on gradient banners
	ImageURL   string `json:"imageUrl"` // Background image; overrides the gradient when set
}

// ThemeConfig is the visual customization built from the theme sheet
type ThemeConfig struct {
	Logo    string       `json:"logo"`
	Banners []Banner     `json:"banner"`
	Navbar  NavbarTheme  `json:"navbar"`
	Product ProductTheme `json:"product"`
	Button  ButtonTheme  `json:"button"`
}

// ResolveTheme returns a theme safe to render: the built-in defaults when
// theme is nil, otherwise a copy with blank fields filled from the defaults.
func ResolveTheme(theme *ThemeConfig) ThemeConfig {
	resolved := ThemeConfig{
		Banners: []Banner{},
		Navbar:  NavbarTheme{BgColor: DefaultNavbarBgColor, IconColor: DefaultNavbarIconColor},
		Product: ProductTheme{NameColor: DefaultProductNameColor},
		Button:  ButtonTheme{BgColor: DefaultButtonBgColor, TextColor: DefaultButtonTextColor},
	}
	if theme == nil {
		return resolved
	}

	resolved.Logo = theme.Logo
	if theme.Navbar.BgColor != "" {
		resolved.Navbar.BgColor = theme.Navbar.BgColor
	}
	if theme.Navbar.IconColor != "" {
		resolved.Navbar.IconColor = theme.Navbar.IconColor
	}
	if theme.Product.NameColor != "" {
		resolved.Product.NameColor = theme.Product.NameColor
	}
	if theme.Button.BgColor != "" {
		resolved.Button.BgColor = theme.Button.BgColor
	}
	if theme.Button.TextColor != "" {
		resolved.Button.TextColor = theme.Button.TextColor
	}
	resolved.Banners = append(resolved.Banners, theme.Banners...)
	return resolved
}
