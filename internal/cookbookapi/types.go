package cookbookapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUserExists is returned by AddUser when the server refuses a duplicate e-mail.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidLogin is returned by Login when the credentials are rejected.
	ErrInvalidLogin = errors.New("invalid login")
)

// StatusError reports a non-2xx answer from the API.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: http status %d: %s", e.Op, e.Code, e.Body)
}

// CookbookInfo is the detail view of one cookbook.
type CookbookInfo struct {
	Validity bool     `json:"validity"`
	Message  string   `json:"message"`
	Recipes  []string `json:"recipes"`
}

// RecipeInfo is the detail view of one recipe.
type RecipeInfo struct {
	Message     string   `json:"message"`
	Ingredients []string `json:"ingredients"`
}

// NewCookbook is the body of an add-cookbook request.
type NewCookbook struct {
	Name    string `json:"new_cookbook_name"`
	IsBook  bool   `json:"new_is_book"`
	Website string `json:"new_website"`
}

// NewRecipe is the body of an add-recipe request.
type NewRecipe struct {
	Name     string `json:"new_recipe_name"`
	Cookbook string `json:"new_cookbook_name"`
	Servings int    `json:"new_servings"`
}

// NewUser is the body of a registration request.
type NewUser struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is returned by every write endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

type newIngredient struct {
	Name   string `json:"new_ingredient"`
	Recipe string `json:"recipe"`
}

type ingredientPairing struct {
	Ingredient string `json:"ingredient_name"`
	Recipe     string `json:"recipe_name"`
}

type checkResponse struct {
	Validity bool `json:"validity"`
}

type userResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
