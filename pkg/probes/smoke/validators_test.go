package smoke

// The validators are heuristics over generated text, not verifiers: they
// pattern-match for structural markers and can produce false positives
// (markers present, code wrong) and false negatives (unusual but correct
// code). The cases below pin the heuristic behavior, including one known
// false positive per validator where it is easy to show.

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFibonacci(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantPass   bool
		wantDetail string
	}{
		{
			name:       "plausible function",
			response:   "def fibonacci(n):\n    if n < 2:\n        return n\n    return fibonacci(n-1) + fibonacci(n-2)",
			wantPass:   true,
			wantDetail: "Function generated correctly",
		},
		{
			name:       "empty response",
			response:   "",
			wantPass:   false,
			wantDetail: "No function definition found",
		},
		{
			name:       "wrong function name",
			response:   "def fib(n):\n    return n",
			wantPass:   false,
			wantDetail: "Function name not found",
		},
		{
			name:       "no return",
			response:   "def fibonacci(n):\n    print(n)",
			wantPass:   false,
			wantDetail: "No return statement",
		},
		{
			name:       "false positive: markers without working code",
			response:   "def fibonacci(n):\n    return 42  # always",
			wantPass:   true,
			wantDetail: "Function generated correctly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, detail := validateFibonacci(tt.response)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantDetail, detail)
		})
	}
}

func TestValidatePalindrome(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantPass   bool
		wantDetail string
	}{
		{
			name:       "reversal and case handling",
			response:   "def is_palindrome(s):\n    s = s.lower().replace(' ', '')\n    return s == s[::-1]",
			wantPass:   true,
			wantDetail: "Handles case and reversal",
		},
		{
			name:       "reversal only",
			response:   "def is_palindrome(s):\n    return s == ''.join(reversed(s))",
			wantPass:   true,
			wantDetail: "Uses string reversal",
		},
		{
			name:       "no reversal logic",
			response:   "def is_palindrome(s):\n    return True",
			wantPass:   false,
			wantDetail: "Missing palindrome logic",
		},
		{
			name:       "no function",
			response:   "s == s[::-1]",
			wantPass:   false,
			wantDetail: "No function definition found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, detail := validatePalindrome(tt.response)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantDetail, detail)
		})
	}
}

func TestValidateFizzbuzz(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantPass bool
	}{
		{
			name:     "modulo implementation",
			response: "def fizzbuzz(n):\n    for i in range(1, n+1):\n        if i % 15 == 0:\n            print('FizzBuzz')\n        elif i % 3 == 0:\n            print('Fizz')\n        elif i % 5 == 0:\n            print('Buzz')\n        else:\n            print(i)",
			wantPass: true,
		},
		{
			name:     "missing modulo",
			response: "def fizzbuzz(n):\n    print('Fizz', 'Buzz')",
			wantPass: false,
		},
		{
			name:     "empty",
			response: "",
			wantPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, _ := validateFizzbuzz(tt.response)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}

func TestValidateJSONParse(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantPass   bool
		wantDetail string
	}{
		{
			name:       "uses json.loads",
			response:   "import json\ndef get_name(json_str):\n    return json.loads(json_str)['name']",
			wantPass:   true,
			wantDetail: "Uses json.loads()",
		},
		{
			name:       "json mentioned without parsing",
			response:   "def get_name(json_str):\n    return json_str",
			wantPass:   false,
			wantDetail: "Missing JSON parsing",
		},
		{
			name:       "no json at all",
			response:   "def get_name(s):\n    return s",
			wantPass:   false,
			wantDetail: "No json module usage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, detail := validateJSONParse(tt.response)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantDetail, detail)
		})
	}
}

func TestValidateErrorExplain(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantPass bool
	}{
		{
			name:     "names the cause",
			response: "The variable 'x' is used before it is defined.",
			wantPass: true,
		},
		{
			name:     "synonym phrasing",
			response: "Python raises this when a name doesn't exist in any scope.",
			wantPass: true,
		},
		{
			name:     "does not explain",
			response: "This is a Python error.",
			wantPass: false,
		},
		{
			name:     "empty",
			response: "",
			wantPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, _ := validateErrorExplain(tt.response)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}

func TestSpecs(t *testing.T) {
	full := Specs(false)
	quick := Specs(true)

	assert.Len(t, full, 5)
	assert.Len(t, quick, 2)
	assert.Equal(t, "fibonacci", quick[0].Name)
	assert.Equal(t, "palindrome", quick[1].Name)
	// quick set is a prefix of the full set
	for i, s := range quick {
		assert.Equal(t, full[i].Name, s.Name)
	}
}
