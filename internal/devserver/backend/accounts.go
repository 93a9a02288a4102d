package backend

import (
	"context"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/model"
)

// Seeded account available on every fresh dev server
const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
	DemoEmail    = "demo@gamehub.vn"
	demoCoins    = 100
)

type account struct {
	user         model.UserRecord
	passwordHash []byte
}

// Registration is the input to Register
type Registration struct {
	Username string
	Email    string
	Password string
	AdminKey string
}

// Accounts holds registered users
type Accounts struct {
	mu       sync.RWMutex
	byID     map[model.UserID]*account
	byName   map[string]*account
	adminKey string
	cost     int
}

// NewAccounts creates the account store and seeds the demo user
func NewAccounts(adminKey string, bcryptCost int) (*Accounts, error) {
	a := &Accounts{
		byID:     make(map[model.UserID]*account),
		byName:   make(map[string]*account),
		adminKey: adminKey,
		cost:     bcryptCost,
	}

	user, err := a.Register(context.Background(), Registration{
		Username: DemoUsername,
		Email:    DemoEmail,
		Password: DemoPassword,
	}, model.RoleUser)
	if err != nil {
		return nil, err
	}
	a.byID[user.ID].user.Coins = demoCoins
	return a, nil
}

// Register creates an account with the given role
func (a *Accounts) Register(ctx context.Context, reg Registration, role model.Role) (*model.UserRecord, error) {
	if role == model.RoleAdmin && (a.adminKey == "" || reg.AdminKey != a.adminKey) {
		return nil, ErrInvalidAdminKey
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), a.cost)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	name := strings.ToLower(reg.Username)
	if _, exists := a.byName[name]; exists {
		return nil, ErrUsernameExists
	}
	for _, acc := range a.byID {
		if strings.EqualFold(acc.user.Email, reg.Email) {
			return nil, ErrEmailExists
		}
	}

	acc := &account{
		user: model.UserRecord{
			ID:               model.UserID(gonanoid.Must()),
			Username:         reg.Username,
			Email:            reg.Email,
			SelectedAvatarID: "avatar-1",
			Level:            1,
			Role:             role,
		},
		passwordHash: hash,
	}
	a.byID[acc.user.ID] = acc
	a.byName[name] = acc

	user := acc.user
	return &user, nil
}

// Authenticate checks a username and password
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*model.UserRecord, error) {
	a.mu.RLock()
	acc, ok := a.byName[strings.ToLower(username)]
	a.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := acc.user
	return &user, nil
}

// Get returns a user by id
func (a *Accounts) Get(ctx context.Context, id model.UserID) (*model.UserRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	acc, ok := a.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := acc.user
	return &user, nil
}

// ChangePassword replaces the password after checking the current one
func (a *Accounts) ChangePassword(ctx context.Context, id model.UserID, current, next string) (*model.UserRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(current)); err != nil {
		return nil, ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), a.cost)
	if err != nil {
		return nil, err
	}
	acc.passwordHash = hash

	user := acc.user
	return &user, nil
}

// UpdateProfile applies the non-nil fields
func (a *Accounts) UpdateProfile(ctx context.Context, id model.UserID, email, avatarID *string) (*model.UserRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if email != nil {
		for otherID, other := range a.byID {
			if otherID != id && strings.EqualFold(other.user.Email, *email) {
				return nil, ErrEmailExists
			}
		}
		acc.user.Email = *email
	}
	if avatarID != nil {
		acc.user.SelectedAvatarID = *avatarID
	}

	user := acc.user
	return &user, nil
}
