package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractIngredients(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bullets and measurements stop at instructions",
			text: "Ingredients:\n- 2 cups flour\n- 1 cup sugar\nInstructions:\n1. Mix",
			want: []string{"flour", "sugar"},
		},
		{
			name: "no heading is inconclusive",
			text: "Today we make pasta!\n- spaghetti\n- tomatoes\nDon't forget to subscribe",
			want: []string{},
		},
		{
			name: "uppercase heading with unicode bullets",
			text: "INGREDIENTS:\n• Tomatoes\n• Onions\n• Garlic\n• Olive oil",
			want: []string{"Tomatoes", "Onions", "Garlic", "Olive oil"},
		},
		{
			name: "numbered list after what you need",
			text: "What you need:\n1. Chicken breast\n2) Rice\n3. Vegetables",
			want: []string{"Chicken breast", "Rice", "Vegetables"},
		},
		{
			name: "fractions and long unit names",
			text: "You'll need:\n- 1/2 cup milk\n- 3 tablespoons butter\n- 200g flour\n- 1 lb beef",
			want: []string{"milk", "butter", "flour", "beef"},
		},
		{
			name: "quantities without units are kept",
			text: "Ingredients:\n- 3 eggs\n- 2 large onions",
			want: []string{"3 eggs", "2 large onions"},
		},
		{
			name: "unit must be a whole word",
			text: "Ingredients:\n1 garlic clove\n2 limes",
			want: []string{"1 garlic clove", "2 limes"},
		},
		{
			name: "decimal quantity is not a list marker",
			text: "Ingredients:\n- 1.5 cups rice",
			want: []string{"rice"},
		},
		{
			name: "blank lines skipped and text before heading ignored",
			text: "My favourite cookies\n\nIngredients:\n\n- Flour\n\n- Butter\n",
			want: []string{"Flour", "Butter"},
		},
		{
			name: "method line stops the scan entirely",
			text: "Ingredients:\n- pasta\nMethod\n- boil water\nIngredients:\n- basil",
			want: []string{"pasta"},
		},
		{
			name: "lines empty after cleaning are dropped",
			text: "Ingredients:\n-\n*\n- salt",
			want: []string{"salt"},
		},
		{
			name: "heading embedded in a sentence",
			text: "Here's what you'll need: \n- Pasta\n- Basil\nSteps below",
			want: []string{"Pasta", "Basil"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractIngredients(tt.text)
			if got == nil {
				t.Fatal("ExtractIngredients() returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractIngredients() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Re-running the parser on its own output finds nothing, since the output
// carries no heading.
func TestExtractIngredientsIdempotent(t *testing.T) {
	inputs := []string{
		"Ingredients:\n- 2 cups flour\n- 1 cup sugar\nInstructions:\n1. Mix",
		"INGREDIENTS:\n• Tomatoes\n• Onions",
		"You'll need:\n- 1/2 cup milk\n- 3 eggs",
	}

	for _, in := range inputs {
		first := ExtractIngredients(in)
		second := ExtractIngredients(strings.Join(first, "\n"))
		if len(second) != 0 {
			t.Errorf("second pass over %q = %q, want empty", first, second)
		}
	}
}

func TestCleanLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"- 2 cups flour", "flour"},
		{"* 1 TBSP olive oil", "olive oil"},
		{"• 2 tsp. salt", "salt"},
		{"4) 500 ml water", "water"},
		{"12. 2 kg potatoes", "potatoes"},
		{"  fresh basil  ", "fresh basil"},
		{"1 l milk", "milk"},
		{"3 lbs chicken", "chicken"},
		{"- - double dash", "- double dash"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanLine(tt.input); got != tt.want {
				t.Errorf("CleanLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
