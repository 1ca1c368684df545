package report

import (
	"fmt"
	"sort"

	"github.com/relicara/augur/pkg/analyzer/smells"
)

// techniques maps each smell type to its applicable refactorings,
// ordered most specific first.
var techniques = map[smells.Type][]Technique{
	smells.TypeLongMethod: {
		{
			Name:        "Extract Method",
			Description: "Split the method into smaller, focused methods.",
			Example:     "Extract logical blocks into well-named methods that explain their purpose.",
		},
		{
			Name:        "Replace Method with Method Object",
			Description: "Turn the method into its own class with fields for parameters and locals.",
			Example:     "Create a class named after the method and pass its locals as constructor arguments.",
		},
		{
			Name:        "Decompose Conditional",
			Description: "Extract complex conditional logic into separate methods.",
			Example:     "Replace the raw condition with a call like isValidForOperation().",
		},
	},
	smells.TypeLargeClass: {
		{
			Name:        "Extract Class",
			Description: "Create new classes for distinct responsibilities.",
			Example:     "Move related methods and fields into a new class with one clear responsibility.",
		},
		{
			Name:        "Extract Interface",
			Description: "Pull common functionality behind interfaces.",
			Example:     "Group related public methods into well-defined interfaces.",
		},
		{
			Name:        "Move Method",
			Description: "Move methods to the class they logically belong to.",
			Example:     "A method using another class more than its own belongs on that class.",
		},
	},
	smells.TypeLongParameterList: {
		{
			Name:        "Introduce Parameter Object",
			Description: "Replace multiple parameters with a single object.",
			Example:     "Replace method(name, age, address, phone) with method(personDetails).",
		},
		{
			Name:        "Preserve Whole Object",
			Description: "Pass the whole object instead of several of its attributes.",
			Example:     "Use method(customer) instead of method(customer.name, customer.address).",
		},
		{
			Name:        "Replace Parameter with Method Call",
			Description: "Derive a parameter inside the method when a call can produce it.",
			Example:     "Replace method(customer, customer.plan()) with method(customer).",
		},
	},
	smells.TypeDuplicateCode: {
		{
			Name:        "Extract Common Code",
			Description: "Extract the duplicated code into one shared method.",
			Example:     "Pull the repeated block into a well-named helper and call it from each site.",
		},
		{
			Name:        "Pull Up Method",
			Description: "Move code duplicated across subclasses into the superclass.",
			Example:     "Similar methods in sibling classes belong on their parent.",
		},
		{
			Name:        "Form Template Method",
			Description: "Define the shared algorithm once with overridable variant steps.",
			Example:     "A template method in the parent fixes the structure; subclasses fill the steps.",
		},
	},
	smells.TypeComplexConditional: {
		{
			Name:        "Decompose Conditional",
			Description: "Extract complex conditions into well-named methods.",
			Example:     "Replace date.before(start) || date.after(end) with isWinter(date).",
		},
		{
			Name:        "Replace Conditional with Polymorphism",
			Description: "Handle type-dispatch branches with polymorphic objects.",
			Example:     "Replace if type == ENGINEER / MANAGER chains with specialized classes.",
		},
		{
			Name:        "Replace Nested Conditional with Guard Clauses",
			Description: "Handle special cases early and return.",
			Example:     "Convert nested if-else blocks into early returns for the special cases.",
		},
	},
	smells.TypeDeadCode: {
		{
			Name:        "Remove Dead Code",
			Description: "Delete unreachable or never-executed code.",
			Example:     "Delete commented-out blocks and statements after unconditional returns.",
		},
		{
			Name:        "Inline Method",
			Description: "Inline a method that is only used once.",
			Example:     "Replace result = calc(); return result with return calc().",
		},
	},
	smells.TypeCommentOveruse: {
		{
			Name:        "Rename Method",
			Description: "Rename methods and variables so comments become unnecessary.",
			Example:     "Replace getD() with getDiscount() and drop the explaining comment.",
		},
		{
			Name:        "Extract Method",
			Description: "Extract commented sections into methods named for what they do.",
			Example:     "Replace a narrated algorithm with a call to a descriptively named method.",
		},
		{
			Name:        "Introduce Assertion",
			Description: "Replace comments about assumptions with assertions.",
			Example:     "Replace a 'must be positive' comment with an explicit check.",
		},
	},
}

var genericTechnique = Technique{
	Name:        "Refactor Toward Clarity",
	Description: "Review the code for clarity, simplicity, and maintainability.",
	Example:     "Apply standard refactoring techniques suited to the finding.",
}

// Techniques returns the catalog entries for a smell type. Unknown
// types fall back to a single generic technique.
func Techniques(t smells.Type) []Technique {
	if ts, ok := techniques[t]; ok {
		return ts
	}
	return []Technique{genericTechnique}
}

// Suggest produces one suggestion per smell using the most specific
// applicable technique.
func Suggest(findings []smells.Smell) []Suggestion {
	suggestions := make([]Suggestion, 0, len(findings))
	for _, s := range findings {
		t := Techniques(s.Type)[0]
		suggestions = append(suggestions, Suggestion{
			SmellType:   s.Type,
			Severity:    s.Severity,
			Path:        s.Path,
			StartLine:   s.StartLine,
			EndLine:     s.EndLine,
			Technique:   t.Name,
			Description: t.Description,
			Example:     t.Example,
		})
	}
	return suggestions
}

// BuildGuide turns suggestions into a numbered plan grouped by
// priority, high severity first. Ordering within a group is stable.
func BuildGuide(title string, suggestions []Suggestion) *Guide {
	guide := &Guide{Title: title}
	if len(suggestions) == 0 {
		guide.Summary = "No refactoring suggestions were identified."
		return guide
	}

	ordered := make([]Suggestion, len(suggestions))
	copy(ordered, suggestions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Weight() > ordered[j].Severity.Weight()
	})

	counts := map[smells.Severity]int{}
	for i, s := range ordered {
		counts[s.Severity]++
		guide.Steps = append(guide.Steps, GuideStep{
			Step:        i + 1,
			Title:       fmt.Sprintf("Apply %s to address %s", s.Technique, s.SmellType),
			Description: s.Description,
			Example:     s.Example,
			Priority:    s.Severity,
			Path:        s.Path,
		})
	}

	guide.Summary = fmt.Sprintf(
		"This guide contains %d refactoring steps: %d high, %d medium, and %d low priority.",
		len(guide.Steps),
		counts[smells.SeverityHigh], counts[smells.SeverityMedium], counts[smells.SeverityLow])
	if counts[smells.SeverityHigh] > 0 {
		guide.Summary += fmt.Sprintf(" Focus first on the %d high priority issues.", counts[smells.SeverityHigh])
	}
	return guide
}
