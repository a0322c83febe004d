package cookbookapi

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(Options{BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}
	return client
}

func TestNewHTTPClient(t *testing.T) {
	if _, err := NewHTTPClient(Options{}); err == nil {
		t.Fatal("Expected an error for empty base url")
	}
	if _, err := NewHTTPClient(Options{BaseURL: "http://x", APIKey: "nokey"}); err == nil {
		t.Fatal("Expected an error for malformed api key")
	}
	if _, err := NewHTTPClient(Options{BaseURL: "http://x", APIKey: "kid:zz"}); err == nil {
		t.Fatal("Expected an error for non-hex secret")
	}
	c, err := NewHTTPClient(Options{BaseURL: "http://x/"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if c.BaseURL() != "http://x" {
		t.Errorf("Expected trimmed base url, got %s", c.BaseURL())
	}
}

func TestReadEndpoints(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected X-Request-ID header")
		}
		switch r.URL.Path {
		case "/cookbook_names":
			fmt.Fprint(w, `["Joy Of Cooking", "Salt Fat Acid Heat"]`)
		case "/cookbook_info/Joy Of Cooking":
			fmt.Fprint(w, `{"validity": true, "message": "\nJoy Of Cooking is a book.", "recipes": ["Pancakes"]}`)
		case "/all_recipe_names":
			fmt.Fprint(w, `["Pancakes", "Soup"]`)
		case "/recipe_names/Joy Of Cooking":
			fmt.Fprint(w, `["Pancakes"]`)
		case "/recipe_info/Pancakes":
			fmt.Fprint(w, `{"message": "Pancakes comes from Joy Of Cooking and serves 4 using: ", "ingredients": ["Flour", "Milk"]}`)
		case "/check_recipe/Soup":
			fmt.Fprint(w, `{"validity": true}`)
		case "/check_recipe/Nothing":
			fmt.Fprint(w, `{"validity": false}`)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	cookbooks, err := client.CookbookNames(ctx)
	if err != nil {
		t.Fatalf("CookbookNames failed: %v", err)
	}
	if !reflect.DeepEqual(cookbooks, []string{"Joy Of Cooking", "Salt Fat Acid Heat"}) {
		t.Errorf("Unexpected cookbooks: %v", cookbooks)
	}

	info, err := client.CookbookInfo(ctx, "Joy Of Cooking")
	if err != nil {
		t.Fatalf("CookbookInfo failed: %v", err)
	}
	if !info.Validity || len(info.Recipes) != 1 || !strings.Contains(info.Message, "is a book") {
		t.Errorf("Unexpected cookbook info: %+v", info)
	}

	recipes, err := client.AllRecipeNames(ctx)
	if err != nil {
		t.Fatalf("AllRecipeNames failed: %v", err)
	}
	if len(recipes) != 2 {
		t.Errorf("Expected 2 recipes, got %v", recipes)
	}

	byBook, err := client.RecipeNames(ctx, "Joy Of Cooking")
	if err != nil {
		t.Fatalf("RecipeNames failed: %v", err)
	}
	if !reflect.DeepEqual(byBook, []string{"Pancakes"}) {
		t.Errorf("Unexpected recipes: %v", byBook)
	}

	rinfo, err := client.RecipeInfo(ctx, "Pancakes")
	if err != nil {
		t.Fatalf("RecipeInfo failed: %v", err)
	}
	if len(rinfo.Ingredients) != 2 || rinfo.Ingredients[1] != "Milk" {
		t.Errorf("Unexpected recipe info: %+v", rinfo)
	}

	ok, err := client.CheckRecipe(ctx, "Soup")
	if err != nil || !ok {
		t.Errorf("CheckRecipe(Soup) = %v, %v", ok, err)
	}
	ok, err = client.CheckRecipe(ctx, "Nothing")
	if err != nil || ok {
		t.Errorf("CheckRecipe(Nothing) = %v, %v", ok, err)
	}
}

func TestWriteEndpointsSendBodies(t *testing.T) {
	ctx := context.Background()
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Expected JSON content type for %s", r.URL.Path)
			}
			if err := json.Unmarshal(data, &c.body); err != nil {
				t.Errorf("Invalid JSON body for %s: %v", r.URL.Path, err)
			}
		}
		calls = append(calls, c)
		fmt.Fprint(w, `{"message": "ok"}`)
	})

	if _, err := client.AddCookbook(ctx, NewCookbook{Name: "Web Eats", IsBook: false, Website: "https://eats.test"}); err != nil {
		t.Fatalf("AddCookbook failed: %v", err)
	}
	if _, err := client.DeleteCookbook(ctx, "Web Eats"); err != nil {
		t.Fatalf("DeleteCookbook failed: %v", err)
	}
	if _, err := client.AddRecipe(ctx, NewRecipe{Name: "Soup", Cookbook: "Web Eats", Servings: 4}); err != nil {
		t.Fatalf("AddRecipe failed: %v", err)
	}
	if _, err := client.DeleteRecipe(ctx, "Soup"); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if _, err := client.AddIngredient(ctx, "Leek", "Soup"); err != nil {
		t.Fatalf("AddIngredient failed: %v", err)
	}
	if _, err := client.PairIngredient(ctx, "Leek", "Soup"); err != nil {
		t.Fatalf("PairIngredient failed: %v", err)
	}
	resp, err := client.DeleteIngredient(ctx, "Leek")
	if err != nil {
		t.Fatalf("DeleteIngredient failed: %v", err)
	}
	if resp.Message != "ok" {
		t.Errorf("Expected message 'ok', got %q", resp.Message)
	}

	expected := []call{
		{http.MethodPut, "/add_cookbook", map[string]any{"new_cookbook_name": "Web Eats", "new_is_book": false, "new_website": "https://eats.test"}},
		{http.MethodDelete, "/delete_cookbook/Web Eats", nil},
		{http.MethodPut, "/add_recipe", map[string]any{"new_recipe_name": "Soup", "new_cookbook_name": "Web Eats", "new_servings": float64(4)}},
		{http.MethodDelete, "/delete_recipe/Soup", nil},
		{http.MethodPut, "/add_ingredient", map[string]any{"new_ingredient": "Leek", "recipe": "Soup"}},
		{http.MethodPut, "/add_ingredient_recipe_pairing", map[string]any{"ingredient_name": "Leek", "recipe_name": "Soup"}},
		{http.MethodDelete, "/delete_ingredient/Leek", nil},
	}
	if !reflect.DeepEqual(calls, expected) {
		t.Errorf("Unexpected calls:\n got %+v\nwant %+v", calls, expected)
	}
}

func TestPathEscaping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/recipe_info/Mac%20&%20Cheese%2F2" {
			t.Errorf("Unexpected escaped path %s", got)
		}
		fmt.Fprint(w, `{"message": "", "ingredients": []}`)
	})

	if _, err := client.RecipeInfo(context.Background(), "Mac & Cheese/2"); err != nil {
		t.Fatalf("RecipeInfo failed: %v", err)
	}
}

func TestStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such cookbook", http.StatusNotFound)
	})

	_, err := client.CookbookInfo(context.Background(), "Missing")
	if err == nil {
		t.Fatal("Expected an error for non-200 status code, got nil")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StatusError, got %T", err)
	}
	if se.Code != http.StatusNotFound || se.Op != "cookbook info" {
		t.Errorf("Unexpected status error: %+v", se)
	}
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to be true")
	}
	if !strings.Contains(err.Error(), "no such cookbook") {
		t.Errorf("Expected body in error, got %q", err.Error())
	}
}

func TestInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>oops</html>`)
	})

	_, err := client.AllRecipeNames(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "all recipe names: failed to decode response") {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestUserEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("RegisterSuccess", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/add_user" {
				t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
			}
			var u NewUser
			if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
				t.Fatal(err)
			}
			if u.Email != "cook@example.com" || u.FirstName != "Ada" {
				t.Errorf("Unexpected user body %+v", u)
			}
			fmt.Fprint(w, `{"success": true}`)
		})
		err := client.AddUser(ctx, NewUser{Email: "cook@example.com", Password: "pw", FirstName: "Ada", LastName: "L"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})

	t.Run("RegisterDuplicate", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"success": false, "message": "User already exists"}`)
		})
		err := client.AddUser(ctx, NewUser{Email: "cook@example.com"})
		if !errors.Is(err, ErrUserExists) {
			t.Fatalf("Expected ErrUserExists, got %v", err)
		}
	})

	t.Run("LoginInvalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/login" {
				t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"success": false}`)
		})
		err := client.Login(ctx, Credentials{Email: "cook@example.com", Password: "bad"})
		if !errors.Is(err, ErrInvalidLogin) {
			t.Fatalf("Expected ErrInvalidLogin, got %v", err)
		}
	})

	t.Run("LoginServerError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `Internal Server Error`)
		})
		err := client.Login(ctx, Credentials{})
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
			t.Fatalf("Expected 500 StatusError, got %v", err)
		}
	})
}

func TestBearerToken(t *testing.T) {
	secret := []byte("super-secret-signing-key")
	key := "client-1:" + hex.EncodeToString(secret)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("Expected bearer token, got %q", auth)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(tok *jwt.Token) (any, error) {
			if tok.Header["kid"] != "client-1" {
				return nil, fmt.Errorf("unexpected kid %v", tok.Header["kid"])
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience("recipe-planner"))
		if err != nil || !token.Valid {
			t.Errorf("Invalid token: %v", err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client, err := NewHTTPClient(Options{BaseURL: server.URL, APIKey: key})
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}
	if _, err := client.CookbookNames(context.Background()); err != nil {
		t.Fatalf("CookbookNames failed: %v", err)
	}
}
