package planner

type week struct {
	theme string
	goals []string
}

// curricula holds the offline weekly goals, keyed by lowercased topic.
var curricula = map[string][]week{
	"python": {
		{"Python Basics", []string{"Install Python", "Variables & Data Types", "Basic Operators"}},
		{"Control Flow", []string{"If/Else Statements", "For/While Loops", "List Comprehensions"}},
		{"Data Structures", []string{"Lists & Tuples", "Dictionaries & Sets", "String Manipulation"}},
		{"Functions", []string{"Defining Functions", "Arguments & Return Values", "Lambda Functions"}},
		{"OOP Basics", []string{"Classes & Objects", "Inheritance", "Methods"}},
		{"File Handling", []string{"Reading Files", "Writing Files", "Context Managers"}},
		{"Modules & Packages", []string{"Importing Modules", "Standard Library", "Pip & Virtualenvs"}},
		{"Final Project", []string{"Plan Project", "Implement Features", "Testing & Debugging"}},
	},
	"javascript": {
		{"JS Fundamentals", []string{"Variables (let/const)", "Data Types", "Operators"}},
		{"Logic & Loops", []string{"Conditionals", "Loops", "Functions"}},
		{"DOM Manipulation", []string{"Selecting Elements", "Event Listeners", "Modifying Styles"}},
		{"ES6+ Features", []string{"Arrow Functions", "Destructuring", "Template Literals"}},
		{"Async JS", []string{"Callbacks", "Promises", "Async/Await"}},
		{"APIs", []string{"Fetch API", "JSON Parsing", "Error Handling"}},
		{"Modern Tooling", []string{"NPM Basics", "Modules", "Webpack/Vite concepts"}},
		{"Project Week", []string{"Build a To-Do App", "Code Review", "Refactoring"}},
	},
}
