package domain

import "sync"

// Collection is a heterogeneous set of records that can be queried by kind.
// Recipe and RecipeGroup both implement it, so every metric runs unchanged on
// one recipe or many.
type Collection interface {
	Size() int
	Contains(kind Kind) bool
	Query(kind Kind) []Record
}

// Select returns the records of the given kind typed as T. Records of the
// kind that are not a T are skipped.
func Select[T Record](c Collection, kind Kind) []T {
	records := c.Query(kind)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Recipe holds every fact collected for one recipe. Appends are safe from
// multiple goroutines; evaluation must start after all appends are done.
type Recipe struct {
	name string

	mu      sync.RWMutex
	records []Record
	byKind  map[Kind][]Record
}

// NewRecipe creates an empty recipe with a validated name
func NewRecipe(name string) (*Recipe, error) {
	if err := ValidateRecipeName(name); err != nil {
		return nil, err
	}
	return &Recipe{
		name:   name,
		byKind: make(map[Kind][]Record),
	}, nil
}

// Name returns the recipe name
func (r *Recipe) Name() string {
	return r.name
}

// Add appends a record
func (r *Recipe) Add(record Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	r.byKind[record.Kind()] = append(r.byKind[record.Kind()], record)
}

// AddAll appends records in order
func (r *Recipe) AddAll(records ...Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		r.records = append(r.records, record)
		r.byKind[record.Kind()] = append(r.byKind[record.Kind()], record)
	}
}

// Size returns the number of stored records
func (r *Recipe) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Contains reports whether at least one record of kind is stored
func (r *Recipe) Contains(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKind[kind]) > 0
}

// Query returns the records of kind in insertion order
func (r *Recipe) Query(kind Kind) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byKind[kind]
	out := make([]Record, len(stored))
	copy(out, stored)
	return out
}

// Records returns every record in insertion order
func (r *Recipe) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Files returns the distinct non-empty file paths in first-seen order
func (r *Recipe) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var files []string
	for _, rec := range r.records {
		f := rec.FilePath()
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		files = append(files, f)
	}
	return files
}

// FileView returns a new recipe holding only the records of file
func (r *Recipe) FileView(file string) *Recipe {
	view := &Recipe{name: r.name, byKind: make(map[Kind][]Record)}
	for _, rec := range r.Records() {
		if rec.FilePath() == file {
			view.Add(rec)
		}
	}
	return view
}

// RecipeGroup is an ordered set of recipes queried as one collection
type RecipeGroup struct {
	name    string
	recipes []*Recipe
}

// NewRecipeGroup creates a group from recipes, keeping their order
func NewRecipeGroup(name string, recipes ...*Recipe) *RecipeGroup {
	return &RecipeGroup{name: name, recipes: append([]*Recipe(nil), recipes...)}
}

// Name returns the group name
func (g *RecipeGroup) Name() string {
	return g.name
}

// Add appends a recipe to the group
func (g *RecipeGroup) Add(recipe *Recipe) {
	g.recipes = append(g.recipes, recipe)
}

// Recipes returns the members in order
func (g *RecipeGroup) Recipes() []*Recipe {
	return append([]*Recipe(nil), g.recipes...)
}

// Recipe finds a member by name
func (g *RecipeGroup) Recipe(name string) (*Recipe, bool) {
	for _, r := range g.recipes {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Len returns the number of member recipes
func (g *RecipeGroup) Len() int {
	return len(g.recipes)
}

// Size returns the total number of records across members
func (g *RecipeGroup) Size() int {
	total := 0
	for _, r := range g.recipes {
		total += r.Size()
	}
	return total
}

// Contains reports whether any member holds a record of kind
func (g *RecipeGroup) Contains(kind Kind) bool {
	for _, r := range g.recipes {
		if r.Contains(kind) {
			return true
		}
	}
	return false
}

// Query concatenates each member's Query(kind) in member order
func (g *RecipeGroup) Query(kind Kind) []Record {
	var out []Record
	for _, r := range g.recipes {
		out = append(out, r.Query(kind)...)
	}
	if out == nil {
		out = []Record{}
	}
	return out
}
