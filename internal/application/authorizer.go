package application

import (
	"strings"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// CommandAuthorizer decides whether a literal command line may run locally.
type CommandAuthorizer interface {
	IsAllowed(command string) bool
}

// CommandCatalog lists the allow-listed commands for display.
type CommandCatalog interface {
	Categories() []model.CommandCategory
}

// Compile-time interface satisfaction checks.
var (
	_ CommandAuthorizer = (*PrefixAuthorizer)(nil)
	_ CommandCatalog    = (*PrefixAuthorizer)(nil)
)

// PrefixAuthorizer matches commands against an allow-list by raw text. A
// command is allowed when it equals an entry (ignoring surrounding whitespace)
// or starts with the entry followed by a space.
//
// Matching is not argument aware. Anything after an allowed prefix, including
// shell operators such as ";", "&&" or "|", runs as written. This is operator
// convenience, not a security boundary.
type PrefixAuthorizer struct {
	categories []model.CommandCategory
}

// DefaultCommandCategories returns the built-in allow-list with custom as the
// final, initially empty, category.
func DefaultCommandCategories() []model.CommandCategory {
	return []model.CommandCategory{
		{Name: model.CategorySystemInfo, Commands: []string{"uname -a"}},
		{Name: model.CategoryIPInfo, Commands: []string{"ip addr", "ifconfig"}},
		{Name: model.CategoryMemoryInfo, Commands: []string{"free -h"}},
		{Name: model.CategoryDiskInfo, Commands: []string{"df -h"}},
		{Name: model.CategoryProcessList, Commands: []string{"ps aux | head -10"}},
		{Name: model.CategoryNetworkTest, Commands: []string{"ping -c 4 google.com"}},
		{Name: model.CategoryCustom, Commands: []string{}},
	}
}

// NewPrefixAuthorizer creates an authorizer over the default categories with
// custom merged into the custom category. Blank custom entries are dropped
// since an empty prefix would allow every command that starts with a space.
func NewPrefixAuthorizer(custom []string) *PrefixAuthorizer {
	categories := DefaultCommandCategories()
	for i := range categories {
		if categories[i].Name != model.CategoryCustom {
			continue
		}
		for _, c := range custom {
			if strings.TrimSpace(c) != "" {
				categories[i].Commands = append(categories[i].Commands, c)
			}
		}
	}
	return &PrefixAuthorizer{categories: categories}
}

// IsAllowed reports whether command matches any allow-list entry.
func (a *PrefixAuthorizer) IsAllowed(command string) bool {
	trimmed := strings.TrimSpace(command)
	for _, category := range a.categories {
		for _, allowed := range category.Commands {
			if trimmed == allowed || strings.HasPrefix(command, allowed+" ") {
				return true
			}
		}
	}
	return false
}

// Categories returns a copy of the allow-list in match order.
func (a *PrefixAuthorizer) Categories() []model.CommandCategory {
	out := make([]model.CommandCategory, len(a.categories))
	for i, c := range a.categories {
		out[i] = model.CommandCategory{
			Name:     c.Name,
			Commands: append([]string(nil), c.Commands...),
		}
	}
	return out
}
