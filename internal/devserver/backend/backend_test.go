package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/model"
)

type BackendSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	accounts *Accounts
	tokens   *Tokens
	games    *Games
	ctx      context.Context
}

func TestBackendSuite(t *testing.T) {
	suite.Run(t, new(BackendSuite))
}

func (s *BackendSuite) SetupTest() {
	var err error
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.accounts, err = NewAccounts("key-1", bcrypt.MinCost)
	s.Require().NoError(err)
	s.tokens = NewTokens("secret", time.Hour, s.clock)
	s.games = NewGames(s.clock)
	s.ctx = context.Background()
}

// Account tests

func (s *BackendSuite) TestDemoUserSeeded() {
	user, err := s.accounts.Authenticate(s.ctx, DemoUsername, DemoPassword)
	s.Require().NoError(err)
	s.Equal(DemoEmail, user.Email)
	s.Equal(100, user.Coins)

	_, err = s.accounts.Authenticate(s.ctx, DemoUsername, "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.accounts.Authenticate(s.ctx, "nobody", DemoPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *BackendSuite) TestRegisterRejectsDuplicates() {
	_, err := s.accounts.Register(s.ctx, Registration{Username: "Demo", Email: "x@y.z", Password: "secret1"}, model.RoleUser)
	s.ErrorIs(err, ErrUsernameExists)

	_, err = s.accounts.Register(s.ctx, Registration{Username: "other", Email: DemoEmail, Password: "secret1"}, model.RoleUser)
	s.ErrorIs(err, ErrEmailExists)
}

func (s *BackendSuite) TestRegisterAdminNeedsKey() {
	_, err := s.accounts.Register(s.ctx, Registration{Username: "root", Email: "r@x.y", Password: "secret1"}, model.RoleAdmin)
	s.ErrorIs(err, ErrInvalidAdminKey)

	user, err := s.accounts.Register(s.ctx, Registration{Username: "root", Email: "r@x.y", Password: "secret1", AdminKey: "key-1"}, model.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, user.Role)
}

func (s *BackendSuite) TestChangePassword() {
	user, err := s.accounts.Authenticate(s.ctx, DemoUsername, DemoPassword)
	s.Require().NoError(err)

	_, err = s.accounts.ChangePassword(s.ctx, user.ID, "wrong", "newpass")
	s.ErrorIs(err, ErrWrongPassword)

	_, err = s.accounts.ChangePassword(s.ctx, user.ID, DemoPassword, "newpass")
	s.Require().NoError(err)

	_, err = s.accounts.Authenticate(s.ctx, DemoUsername, "newpass")
	s.NoError(err)
}

func (s *BackendSuite) TestUpdateProfile() {
	user, err := s.accounts.Authenticate(s.ctx, DemoUsername, DemoPassword)
	s.Require().NoError(err)

	avatar := "avatar-7"
	updated, err := s.accounts.UpdateProfile(s.ctx, user.ID, nil, &avatar)
	s.Require().NoError(err)
	s.Equal("avatar-7", updated.SelectedAvatarID)
	s.Equal(DemoEmail, updated.Email)
}

// Token tests

func (s *BackendSuite) TestTokenRoundTrip() {
	user := model.UserRecord{ID: "u1", Username: "demo", Role: model.RoleUser}
	token, err := s.tokens.Issue(user)
	s.Require().NoError(err)

	claims, err := s.tokens.Validate(token)
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), claims.UserID)
	s.Equal("demo", claims.Username)
}

func (s *BackendSuite) TestTokenExpires() {
	token, err := s.tokens.Issue(model.UserRecord{ID: "u1"})
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)
	_, err = s.tokens.Validate(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *BackendSuite) TestTokenWrongSecret() {
	token, err := NewTokens("other", time.Hour, s.clock).Issue(model.UserRecord{ID: "u1"})
	s.Require().NoError(err)

	_, err = s.tokens.Validate(token)
	s.ErrorIs(err, ErrInvalidToken)
}

// Game tests

func (s *BackendSuite) TestListFilters() {
	s.Len(s.games.List(s.ctx, "", 0), 5)
	s.Len(s.games.List(s.ctx, "", 2), 2)

	puzzle := s.games.List(s.ctx, "Puzzle", 0)
	s.Require().Len(puzzle, 1)
	s.Equal("HJXei0j", puzzle[0].ID)
}

func (s *BackendSuite) TestCommentsNewestFirst() {
	user := model.UserRecord{ID: "u1", Username: "demo"}
	_, err := s.games.AddComment(s.ctx, "HJXei0j", user, "first", 4)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.games.AddComment(s.ctx, "HJXei0j", user, "second", 5)
	s.Require().NoError(err)

	comments, err := s.games.Comments(s.ctx, "HJXei0j")
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Equal("second", comments[0].Content)

	_, err = s.games.Comments(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *BackendSuite) TestDeleteComment() {
	c, err := s.games.AddComment(s.ctx, "HJXei0j", model.UserRecord{ID: "u1"}, "hay", 5)
	s.Require().NoError(err)

	s.ErrorIs(s.games.DeleteComment(s.ctx, c.ID, "u2"), ErrNotCommentAuthor)
	s.NoError(s.games.DeleteComment(s.ctx, c.ID, "u1"))
	s.ErrorIs(s.games.DeleteComment(s.ctx, c.ID, "u1"), model.ErrCommentNotFound)
}

func (s *BackendSuite) TestRateReplacesEarlierRating() {
	_, err := s.games.Rate(s.ctx, "HJXei0j", "u1", 2)
	s.Require().NoError(err)
	summary, err := s.games.Rate(s.ctx, "HJXei0j", "u2", 5)
	s.Require().NoError(err)
	s.Equal(3.5, summary.Average)

	summary, err = s.games.Rate(s.ctx, "HJXei0j", "u1", 5)
	s.Require().NoError(err)
	s.Equal(5.0, summary.Average)
	s.Equal(2, summary.Count)

	_, err = s.games.Rate(s.ctx, "HJXei0j", "u1", 0)
	s.ErrorIs(err, model.ErrInvalidRating)
}
