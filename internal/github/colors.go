package github

// languageColors maps repository languages to their display hex colors.
// Languages outside the table get the neutral gray.
var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"TypeScript": "#2b7489",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"C++":        "#f34b7d",
	"C":          "#555555",
	"C#":         "#178600",
	"Ruby":       "#701516",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Swift":      "#ffac45",
	"Kotlin":     "#A97BFF",
	"PHP":        "#4F5D95",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"Vue":        "#41b883",
	"React":      "#61dafb",
}

const defaultLanguageColor = "#6b7280"

// LanguageColor returns the display color for a repository language.
func LanguageColor(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}
	return defaultLanguageColor
}
