package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/priceai/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, id string) domain.User {
	t.Helper()
	user := domain.User{ID: id, Name: "Asha", Email: id + "@example.com", Role: domain.RoleUser}
	require.NoError(t, store.CreateUser(context.Background(), user, "hash"))
	return user
}

func TestCreateUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "u1")

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := domain.User{ID: "u2", Name: "Other", Email: user.Email, Role: domain.RoleUser}
		err := store.CreateUser(ctx, dup, "hash")
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("new user starts with empty collections", func(t *testing.T) {
		doc, err := store.GetDocument(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, doc.Cart)
		assert.Empty(t, doc.Wishlist)
		assert.Empty(t, doc.Orders)
	})
}

func TestGetUserByEmail(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	t.Run("returns profile and hash", func(t *testing.T) {
		user, hash, err := store.GetUserByEmail(ctx, "u1@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "hash", hash)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAppendIfAbsent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	rec := domain.ProductRecord{Name: "iPhone 15", Price: "79900", Source: "Amazon.in"}

	require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldCart, rec))

	t.Run("append is idempotent by identity", func(t *testing.T) {
		// Same identity with different ephemeral fields must not append.
		again := rec
		again.Link = "https://www.amazon.in/dp/OTHER"
		require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldCart, again))

		doc, err := store.GetDocument(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, doc.Cart, 1)
	})

	t.Run("different identity appends", func(t *testing.T) {
		other := domain.ProductRecord{Name: "Pixel 8", Price: "49999", Source: "Flipkart"}
		require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldCart, other))

		doc, err := store.GetDocument(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, doc.Cart, 2)
	})

	t.Run("unknown collection rejected", func(t *testing.T) {
		err := store.AppendIfAbsent(ctx, "u1", "favourites", rec)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := store.AppendIfAbsent(ctx, "ghost", domain.FieldCart, rec)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRemoveByIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	rec := domain.ProductRecord{
		Name:   "iPhone 15",
		Price:  "79900",
		Source: "Amazon.in",
		Link:   "https://www.amazon.in/dp/OLD",
	}
	keep := domain.ProductRecord{Name: "Pixel 8", Price: "49999", Source: "Flipkart"}
	require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldWishlist, rec))
	require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldWishlist, keep))

	t.Run("matches on identity not structure", func(t *testing.T) {
		// The caller derives the identity from a rendered record whose
		// link drifted from the persisted copy.
		rendered := rec
		rendered.Link = "https://www.amazon.in/dp/NEW?tracking=1"

		require.NoError(t, store.RemoveByIdentity(ctx, "u1", domain.FieldWishlist, rendered.Identity()))

		doc, err := store.GetDocument(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, doc.Wishlist, 1)
		assert.Equal(t, "Pixel 8", doc.Wishlist[0].Name)
	})

	t.Run("removing an absent identity is a no-op", func(t *testing.T) {
		require.NoError(t, store.RemoveByIdentity(ctx, "u1", domain.FieldWishlist, "no-such-identity"))

		doc, err := store.GetDocument(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, doc.Wishlist, 1)
	})
}

func TestReplaceArray(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	rec := domain.ProductRecord{Name: "iPhone 15", Price: "79900", Source: "Amazon.in"}
	require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldCart, rec))

	t.Run("nil clears the collection", func(t *testing.T) {
		require.NoError(t, store.ReplaceArray(ctx, "u1", domain.FieldCart, nil))

		doc, err := store.GetDocument(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, doc.Cart)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := store.ReplaceArray(ctx, "ghost", domain.FieldCart, nil)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestCompleteCheckout(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	rec := domain.ProductRecord{Name: "iPhone 15", Price: "79900", Source: "Amazon.in"}
	require.NoError(t, store.AppendIfAbsent(ctx, "u1", domain.FieldCart, rec))

	order := domain.Order{
		ID:     "123456",
		Date:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Total:  80899,
		Method: domain.PaymentCard,
		Items: []domain.OrderItem{
			{Name: "iPhone 15", Source: "Amazon.in", Price: "₹79,900"},
		},
	}

	require.NoError(t, store.CompleteCheckout(ctx, "u1", order))
	require.NoError(t, store.CompleteCheckout(ctx, "u1", domain.Order{ID: "123457", Date: order.Date.Add(time.Hour)}))

	doc, err := store.GetDocument(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, doc.Orders, 2)
	assert.Equal(t, "123456", doc.Orders[0].ID)
	assert.Equal(t, 80899.0, doc.Orders[0].Total)
	assert.True(t, doc.Orders[0].Date.Equal(order.Date))
	require.Len(t, doc.Orders[0].Items, 1)
	assert.Equal(t, "₹79,900", doc.Orders[0].Items[0].Price)

	// The same write that lands the order empties the cart.
	assert.Empty(t, doc.Cart)

	t.Run("unknown user leaves nothing behind", func(t *testing.T) {
		err := store.CompleteCheckout(ctx, "ghost", order)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestListUsers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, domain.User{ID: "u2", Name: "B", Email: "b@example.com", Role: domain.RoleUser}, "h"))
	require.NoError(t, store.CreateUser(ctx, domain.User{ID: "u1", Name: "A", Email: "a@example.com", Role: domain.RoleAdmin}, "h"))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Ordered by email.
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, "b@example.com", users[1].Email)
}

func TestGetDocumentUnknownUser(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetDocument(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
