package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
		thDraculaTheme(),
	} {
		thRegister(t)
	}
}

// thDefaultTheme returns the dark neutral theme with purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",

		Border:      "#3e3e3e",
		Header:      "#d4d4d4",
		Date:        "#6b6b6b",
		Clock:       "#d4d4d4",
		DotActive:   "#7C3AED",
		DotInactive: "#3e3e3e",
		Placeholder: "#e06c75",

		HelpKey:  "#7C3AED",
		HelpDesc: "#6b6b6b",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Border:      "#504945",
		Header:      "#ebdbb2",
		Date:        "#928374",
		Clock:       "#fabd2f",
		DotActive:   "#fe8019",
		DotInactive: "#504945",
		Placeholder: "#fb4934",

		HelpKey:  "#fe8019",
		HelpDesc: "#928374",
	}
}

// thNordTheme returns the cool arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		Header:      "#eceff4",
		Date:        "#81a1c1",
		Clock:       "#eceff4",
		DotActive:   "#88c0d0",
		DotInactive: "#4c566a",
		Placeholder: "#bf616a",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}

// thDraculaTheme returns the Dracula theme.
func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		Border:      "#44475a",
		Header:      "#f8f8f2",
		Date:        "#6272a4",
		Clock:       "#50fa7b",
		DotActive:   "#ff79c6",
		DotInactive: "#44475a",
		Placeholder: "#ff5555",

		HelpKey:  "#bd93f9",
		HelpDesc: "#6272a4",
	}
}
