package entity

import "strings"

// ReportCategories lista as categorias de relatório reconhecidas, na ordem de
// exibição do índice.
var ReportCategories = []string{"daily", "yesterday", "mtd", "ytd", "last"}

// CategorizedReports maps a category name to the report names under it.
// Recomputed on each listing; names that match no category are omitted.
type CategorizedReports map[string][]string

// CategorizeReports groups report names by their category prefix.
func CategorizeReports(names []string) CategorizedReports {
	categorized := make(CategorizedReports, len(ReportCategories))
	for _, category := range ReportCategories {
		categorized[category] = []string{}
	}
	for _, name := range names {
		for _, category := range ReportCategories {
			if strings.HasPrefix(name, category) {
				categorized[category] = append(categorized[category], name)
				break
			}
		}
	}
	return categorized
}
