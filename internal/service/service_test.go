package service

import (
	"testing"
	"time"

	"sweet-shop/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// restoreGlobals resets every package hook after a test swaps it.
func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	parseWithClaims = jwt.ParseWithClaims
	getUserByEmail = store.GetUserByEmail
	createUser = store.CreateUser
	createSweet = store.CreateSweet
	listSweets = store.ListSweets
	getSweetByID = store.GetSweetByID
	searchSweets = store.SearchSweets
	updateSweet = store.UpdateSweet
	purchaseSweet = store.PurchaseSweet
	restockSweet = store.RestockSweet
	deleteSweet = store.DeleteSweet
	timeNow = time.Now
}

func withRestore(t *testing.T) {
	t.Helper()
	t.Cleanup(restoreGlobals)
}
