package testcases

// All contains all cases, grouped by category.
// The category name is used as a prefix in output file names.
var All = map[string][]Case{
	"rachis":  rachisCases,
	"outline": outlineCases,
	"barbs":   barbCases,
}
