package smoke

import (
	"strings"
)

// Validator applies a heuristic check to a completion and explains its
// verdict in one short sentence.
type Validator func(response string) (passed bool, detail string)

// Spec is one canned coding prompt together with its validator.
type Spec struct {
	Name     string
	Prompt   string
	Validate Validator
}

// Specs returns the probe specs in their canonical order. With quick set,
// only the two cheapest probes are returned.
func Specs(quick bool) []Spec {
	specs := []Spec{
		{
			Name:     "fibonacci",
			Prompt:   "Write a Python function called fibonacci(n) that returns the nth fibonacci number. Just the code, no explanation.",
			Validate: validateFibonacci,
		},
		{
			Name:     "palindrome",
			Prompt:   "Write a Python function is_palindrome(s) that returns True if string s is a palindrome (ignoring case and spaces). Just the code.",
			Validate: validatePalindrome,
		},
	}
	if quick {
		return specs
	}
	return append(specs,
		Spec{
			Name:     "fizzbuzz",
			Prompt:   "Write a Python function fizzbuzz(n) that prints FizzBuzz from 1 to n. Just the code.",
			Validate: validateFizzbuzz,
		},
		Spec{
			Name:     "json_parse",
			Prompt:   `Write a Python function get_name(json_str) that parses a JSON string and returns the "name" field. Just the code.`,
			Validate: validateJSONParse,
		},
		Spec{
			Name:     "error_explain",
			Prompt:   "Explain this Python error in one sentence:\n```\nNameError: name 'x' is not defined\n```",
			Validate: validateErrorExplain,
		},
	)
}

// validateFibonacci expects a named function definition with a return
// statement.
func validateFibonacci(response string) (bool, string) {
	lower := strings.ToLower(response)
	if !strings.Contains(lower, "def ") {
		return false, "No function definition found"
	}
	if !strings.Contains(lower, "fibonacci") {
		return false, "Function name not found"
	}
	if !strings.Contains(lower, "return") {
		return false, "No return statement"
	}
	return true, "Function generated correctly"
}

// validatePalindrome expects reversal logic, ideally case-normalized.
func validatePalindrome(response string) (bool, string) {
	lower := strings.ToLower(response)
	if !strings.Contains(lower, "def ") {
		return false, "No function definition found"
	}
	hasReverse := strings.Contains(response, "[::-1]") || strings.Contains(lower, "reversed")
	hasLower := strings.Contains(response, ".lower()") || strings.Contains(response, "lower")
	if hasReverse && hasLower {
		return true, "Handles case and reversal"
	}
	if hasReverse {
		return true, "Uses string reversal"
	}
	return false, "Missing palindrome logic"
}

// validateFizzbuzz expects the two words and a modulo operation.
func validateFizzbuzz(response string) (bool, string) {
	lower := strings.ToLower(response)
	if !strings.Contains(lower, "def ") {
		return false, "No function definition found"
	}
	if strings.Contains(lower, "fizz") && strings.Contains(lower, "buzz") && strings.Contains(response, "%") {
		return true, "Loop with modulo logic"
	}
	return false, "Missing FizzBuzz logic"
}

// validateJSONParse expects usage of the json module's load functions.
func validateJSONParse(response string) (bool, string) {
	lower := strings.ToLower(response)
	if !strings.Contains(lower, "json") {
		return false, "No json module usage"
	}
	if strings.Contains(lower, "load") {
		return true, "Uses json.loads()"
	}
	return false, "Missing JSON parsing"
}

// errorExplainKeywords are phrasings that indicate the model understood
// what a NameError is.
var errorExplainKeywords = []string{
	"not defined",
	"undefined",
	"doesn't exist",
	"not exist",
	"variable",
	"declared",
}

// validateErrorExplain expects the explanation to name the cause of a
// NameError.
func validateErrorExplain(response string) (bool, string) {
	lower := strings.ToLower(response)
	for _, kw := range errorExplainKeywords {
		if strings.Contains(lower, kw) {
			return true, "Identified NameError issue"
		}
	}
	return false, "Did not explain error"
}
