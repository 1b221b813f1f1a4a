package autocomplete

import "strings"

// Pattern-matched suggestion templates keyed by the text immediately
// before the cursor.
var pythonSuggestions = map[string]string{
	"def ":    "def function_name():\n    pass",
	"class ":  "class ClassName:\n    def __init__(self):\n        pass",
	"for ":    "for item in iterable:\n    ",
	"if ":     "if condition:\n    ",
	"import ": "import module_name",
	"from ":   "from module import name",
	"while ":  "while condition:\n    ",
	"try":     "try:\n    pass\nexcept Exception as e:\n    pass",
	"with ":   "with open('file.txt') as f:\n    ",
	"print":   "print()",
	"return":  "return value",
}

var javascriptSuggestions = map[string]string{
	"function ": "function name() {\n    \n}",
	"const ":    "const name = value;",
	"let ":      "let name = value;",
	"for ":      "for (let i = 0; i < length; i++) {\n    \n}",
	"if ":       "if (condition) {\n    \n}",
	"import ":   "import { name } from 'module';",
	"export ":   "export const name = value;",
	"async ":    "async function name() {\n    \n}",
	"console":   "console.log()",
	"return":    "return value;",
}

const lookback = 20

// Suggest returns a completion for the code before cursorPos along with a
// confidence score. Pure lookup, no state.
func Suggest(code string, cursorPos int, language string) (string, float64) {
	if cursorPos < 0 {
		cursorPos = 0
	}
	if cursorPos > len(code) {
		cursorPos = len(code)
	}

	start := cursorPos - lookback
	if start < 0 {
		start = 0
	}
	recent := strings.ToLower(code[start:cursorPos])

	suggestions := pythonSuggestions
	if language != "python" {
		suggestions = javascriptSuggestions
	}

	for pattern, suggestion := range suggestions {
		if strings.HasSuffix(recent, strings.ToLower(pattern)) {
			return suggestion, 0.85
		}
	}

	if language == "python" {
		return "# Continue coding...", 0.3
	}
	return "// Continue coding...", 0.3
}
