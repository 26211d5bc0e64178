package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"camerastore/internal/client"

	"github.com/joho/godotenv"
)

// Sequential smoke checks against a running API. Intended for a freshly
// seeded instance (cmd/seed).
func main() {
	_ = godotenv.Load()

	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	email := flag.String("email", "customer@camerastore.local", "account email")
	password := flag.String("password", "customer-password", "account password")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storePath := filepath.Join(os.TempDir(), "camerastore-smoke.db")
	os.Remove(storePath)
	store, err := client.OpenStore(storePath)
	if err != nil {
		fmt.Printf("FAIL open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	defer os.Remove(storePath)

	api := client.NewAPIClient(*baseURL)
	session := client.NewSession(api, store)
	catalog := client.NewCatalogFlow(api, 12)
	wishlist := client.NewWishlist(store)

	failed := 0
	check := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", name, err)
			return
		}
		fmt.Printf("ok   %s\n", name)
	}

	// Anonymous browsing
	_, err = catalog.LoadCategories(ctx)
	check("load categories", err)

	check("list products", catalog.Refresh(ctx))
	state := catalog.State()
	if state.TotalItems == 0 {
		failed++
		fmt.Println("FAIL list products: catalog is empty, run cmd/seed first")
	}

	catalog.SetSearch("tripod")
	check("search products", catalog.Refresh(ctx))

	catalog.ClearFilters()
	if ok := catalog.SelectShortcut("67mm Filters"); !ok {
		failed++
		fmt.Println("FAIL shortcut: \"67mm Filters\" not found in category submenus")
	} else {
		check("shortcut filter", catalog.Refresh(ctx))
	}

	// Signed-in flow
	_, err = session.SignIn(ctx, *email, *password)
	check("sign in", err)

	if session.State() == client.StateAuthenticated {
		_, err = session.RefreshProfile(ctx)
		check("refresh profile", err)

		state = catalog.State()
		if len(state.Products) > 0 {
			productID := state.Products[0].ID
			_, err = wishlist.Toggle(session.UserID(), productID)
			check("wishlist toggle on", err)

			onList, err := wishlist.Contains(session.UserID(), productID)
			check("wishlist contains", err)
			if err == nil && !onList {
				failed++
				fmt.Println("FAIL wishlist contains: toggled product missing")
			}

			_, err = wishlist.Toggle(session.UserID(), productID)
			check("wishlist toggle off", err)
		}

		check("sign out", session.SignOut(ctx))
	}

	if failed > 0 {
		fmt.Printf("%d check(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("all checks passed")
}
