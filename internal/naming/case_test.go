package naming

import "testing"

func TestConvert_CaseTable(t *testing.T) {
	const input = "cat on carpet"

	tests := []struct {
		name     string
		style    Style
		expected string
	}{
		{"snake", StyleSnake, "cat_on_carpet"},
		{"camel", StyleCamel, "catOnCarpet"},
		{"pascal", StylePascal, "CatOnCarpet"},
		{"kebab", StyleKebab, "cat-on-carpet"},
		{"lower", StyleLower, "cat_on_carpet"},
		{"upper", StyleUpper, "CAT_ON_CARPET"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Convert(input, tc.style); got != tc.expected {
				t.Errorf("Convert(%q, %v) = %q, want %q", input, tc.style, got, tc.expected)
			}
		})
	}
}

func TestConvert_SnakeMergesSeparators(t *testing.T) {
	inputs := []string{
		"cat--on--carpet",
		"cat__on__carpet",
		"cat  on   carpet",
		"CatOnCarpet",
	}

	for _, input := range inputs {
		if got := Convert(input, StyleSnake); got != "cat_on_carpet" {
			t.Errorf("Convert(%q, snake) = %q, want cat_on_carpet", input, got)
		}
	}
}

func TestConvert_SnakeDropsSpecialChars(t *testing.T) {
	if got := Convert("cat! on? carpet.", StyleSnake); got != "cat_on_carpet" {
		t.Errorf("got %q, want cat_on_carpet", got)
	}
}

func TestConvert_SnakeTrimsTrailingSeparator(t *testing.T) {
	if got := Convert("cat on ", StyleSnake); got != "cat_on" {
		t.Errorf("got %q, want cat_on", got)
	}
}

func TestConvert_SnakeKeepsUppercaseRuns(t *testing.T) {
	// Consecutive uppercase letters belong to one word.
	if got := Convert("GPSData", StyleSnake); got != "gpsdata" {
		t.Errorf("got %q, want gpsdata", got)
	}
}

func TestConvert_CamelSingleWord(t *testing.T) {
	if got := Convert("Carpet", StyleCamel); got != "carpet" {
		t.Errorf("got %q, want carpet", got)
	}
}

func TestConvert_EmptyInput(t *testing.T) {
	for _, style := range []Style{StyleSnake, StyleCamel, StylePascal, StyleKebab} {
		if got := Convert("", style); got != "" {
			t.Errorf("Convert(\"\", %v) = %q, want empty", style, got)
		}
	}
}

func TestParseStyle_Spellings(t *testing.T) {
	tests := []struct {
		input    string
		expected Style
	}{
		{"snake_case", StyleSnake},
		{"snakecase", StyleSnake},
		{"SNAKE_CASE", StyleSnake},
		{"camelCase", StyleCamel},
		{"camel_case", StyleCamel},
		{"PascalCase", StylePascal},
		{"pascal_case", StylePascal},
		{"kebab-case", StyleKebab},
		{"kebabcase", StyleKebab},
		{"lowercase", StyleLower},
		{"UPPERCASE", StyleUpper},
	}

	for _, tc := range tests {
		if got := ParseStyle(tc.input); got != tc.expected {
			t.Errorf("ParseStyle(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestParseStyle_UnrecognizedDefaultsToSnake(t *testing.T) {
	for _, input := range []string{"", "shouting", "TitleCase"} {
		if got := ParseStyle(input); got != StyleSnake {
			t.Errorf("ParseStyle(%q) = %v, want StyleSnake", input, got)
		}
	}

	// And the converted output matches the snake result.
	if got := Convert("cat on carpet", ParseStyle("shouting")); got != "cat_on_carpet" {
		t.Errorf("got %q, want cat_on_carpet", got)
	}
}
