package session

import "sync"

// NameCache holds the last-fetched cookbook and recipe name lists. Each list is
// replaced wholesale by its setter and is never partially mutated.
type NameCache struct {
	mu sync.RWMutex

	cookbookNames  []string
	cookbookLoaded bool

	recipeNames  []string
	recipeLoaded bool
}

// SetCookbookNames replaces the cached cookbook names.
func (c *NameCache) SetCookbookNames(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookbookNames = cloneSlice(names)
	c.cookbookLoaded = true
}

// CookbookNames returns the cached cookbook names, or nil before the first
// successful fetch.
func (c *NameCache) CookbookNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneSlice(c.cookbookNames)
}

// CookbookNamesLoaded reports whether SetCookbookNames was ever called.
func (c *NameCache) CookbookNamesLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookbookLoaded
}

// SetRecipeNames replaces the cached recipe names.
func (c *NameCache) SetRecipeNames(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipeNames = cloneSlice(names)
	c.recipeLoaded = true
}

// RecipeNames returns the cached recipe names, or nil before the first
// successful fetch.
func (c *NameCache) RecipeNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneSlice(c.recipeNames)
}

// RecipeNamesLoaded reports whether SetRecipeNames was ever called.
func (c *NameCache) RecipeNamesLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recipeLoaded
}

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
