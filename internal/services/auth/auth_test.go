package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

type fakeUserStore struct {
	users []*models.User
}

func (f *fakeUserStore) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range f.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, storage.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users = append(f.users, user)
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID.Hex() == id })
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUserStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.EmailVerificationToken == token })
}

func (f *fakeUserStore) MarkVerified(ctx context.Context, token, oneTimeToken string, oneTimeExpiry time.Time) (*models.User, error) {
	for _, u := range f.users {
		if u.EmailVerificationToken == token && !u.IsEmailVerified &&
			u.EmailVerificationTokenExpiry != nil && u.EmailVerificationTokenExpiry.After(time.Now()) {
			u.IsEmailVerified = true
			u.EmailVerificationTokenExpiry = nil
			u.OneTimeLoginToken = oneTimeToken
			u.OneTimeLoginTokenExpiry = &oneTimeExpiry
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) SetVerificationToken(ctx context.Context, email, token string, expiry time.Time) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email && !u.IsEmailVerified {
			u.EmailVerificationToken = token
			u.EmailVerificationTokenExpiry = &expiry
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) ConsumeOneTimeToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.OneTimeLoginToken == token &&
			u.OneTimeLoginTokenExpiry != nil && u.OneTimeLoginTokenExpiry.After(time.Now()) {
			u.OneTimeLoginToken = ""
			u.OneTimeLoginTokenExpiry = nil
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	f.sent = append(f.sent, recipient)
	return nil
}

// inlineExecutor runs tasks synchronously so tests observe their effects
// without sleeping.
type inlineExecutor struct{}

func (inlineExecutor) Add(task func()) { task() }

func newTestService(t *testing.T) (*AuthService, *fakeUserStore, *fakeMailer) {
	t.Helper()
	store := &fakeUserStore{}
	mailer := &fakeMailer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(log, store, mailer, inlineExecutor{}, Config{
		Secret:          "test-secret",
		SessionTTL:      time.Hour,
		VerificationTTL: 24 * time.Hour,
		OneTimeTTL:      5 * time.Minute,
		BcryptCost:      bcrypt.MinCost,
		SiteURL:         "http://localhost:8000",
	})
	return svc, store, mailer
}

func signupParams() SignupParams {
	return SignupParams{
		FirstName: "John",
		LastName:  "Doe",
		Username:  "johndoe",
		Email:     "john@example.com",
		Password:  "abcdef12",
		Gender:    models.GenderMale,
	}
}

func TestSignup(t *testing.T) {
	t.Run("creates unverified user and emails a token", func(t *testing.T) {
		svc, store, mailer := newTestService(t)
		user, err := svc.Signup(context.Background(), signupParams())
		require.NoError(t, err)
		assert.False(t, user.ID.IsZero())
		assert.False(t, user.IsEmailVerified)
		assert.NotEmpty(t, user.EmailVerificationToken)
		require.NotNil(t, user.EmailVerificationTokenExpiry)
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("abcdef12")))
		assert.Contains(t, user.ProfilePicture, "/public/boy")
		assert.Equal(t, []string{"john@example.com"}, mailer.sent)
		assert.Len(t, store.users, 1)
	})
	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Signup(context.Background(), signupParams())
		require.NoError(t, err)
		params := signupParams()
		params.Username = "someoneelse"
		_, err = svc.Signup(context.Background(), params)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
	t.Run("duplicate username", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Signup(context.Background(), signupParams())
		require.NoError(t, err)
		params := signupParams()
		params.Email = "other@example.com"
		_, err = svc.Signup(context.Background(), params)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
	t.Run("female avatar", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		params := signupParams()
		params.Gender = models.GenderFemale
		user, err := svc.Signup(context.Background(), params)
		require.NoError(t, err)
		assert.Contains(t, user.ProfilePicture, "/public/girl")
	})
}

func TestVerifyEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Signup(context.Background(), signupParams())
	require.NoError(t, err)
	token := created.EmailVerificationToken

	t.Run("unknown token", func(t *testing.T) {
		_, _, err := svc.VerifyEmail(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("valid token verifies and issues a login token", func(t *testing.T) {
		user, loginToken, err := svc.VerifyEmail(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, user.IsEmailVerified)
		assert.NotEmpty(t, loginToken)
	})
	t.Run("re-presented token reports already verified", func(t *testing.T) {
		_, _, err := svc.VerifyEmail(context.Background(), token)
		assert.ErrorIs(t, err, ErrAlreadyVerified)
	})
}

func TestOneTimeLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Signup(context.Background(), signupParams())
	require.NoError(t, err)
	_, loginToken, err := svc.VerifyEmail(context.Background(), created.EmailVerificationToken)
	require.NoError(t, err)

	session, user, err := svc.OneTimeLogin(context.Background(), loginToken)
	require.NoError(t, err)
	assert.NotEmpty(t, session)
	assert.Equal(t, created.Email, user.Email)

	// single use
	_, _, err = svc.OneTimeLogin(context.Background(), loginToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Signup(context.Background(), signupParams())
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ghost@example.com", "abcdef12")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("unverified email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), created.Email, "abcdef12")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	_, _, err = svc.VerifyEmail(context.Background(), created.EmailVerificationToken)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), created.Email, "wrongpass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("success mints a parsable session", func(t *testing.T) {
		token, user, err := svc.Login(context.Background(), created.Email, "abcdef12")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		session, err := svc.ParseSession(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), session.ID)
		assert.Equal(t, user.Email, session.Email)
		assert.Equal(t, user.Username, session.Username)
		assert.True(t, session.Verified)
		assert.False(t, session.IsAnonymous())
	})
}

func TestParseSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseSession("definitely-not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
	t.Run("expired", func(t *testing.T) {
		expired := *svc
		expired.cfg.SessionTTL = -time.Hour
		token, err := expired.mintSession(&models.User{ID: primitive.NewObjectID(), Email: "a@b.c"})
		require.NoError(t, err)
		_, err = svc.ParseSession(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
	t.Run("wrong secret", func(t *testing.T) {
		other := *svc
		other.cfg.Secret = "another-secret"
		token, err := other.mintSession(&models.User{ID: primitive.NewObjectID(), Email: "a@b.c"})
		require.NoError(t, err)
		_, err = svc.ParseSession(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestResendVerification(t *testing.T) {
	svc, store, mailer := newTestService(t)
	created, err := svc.Signup(context.Background(), signupParams())
	require.NoError(t, err)
	firstToken := created.EmailVerificationToken

	t.Run("unknown email", func(t *testing.T) {
		err := svc.ResendVerification(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
	t.Run("rotates the token and sends a mail", func(t *testing.T) {
		err := svc.ResendVerification(context.Background(), created.Email)
		require.NoError(t, err)
		stored, err := store.GetByEmail(context.Background(), created.Email)
		require.NoError(t, err)
		assert.NotEqual(t, firstToken, stored.EmailVerificationToken)
		assert.Len(t, mailer.sent, 2)
	})
	t.Run("already verified", func(t *testing.T) {
		stored, err := store.GetByEmail(context.Background(), created.Email)
		require.NoError(t, err)
		_, _, err = svc.VerifyEmail(context.Background(), stored.EmailVerificationToken)
		require.NoError(t, err)
		err = svc.ResendVerification(context.Background(), created.Email)
		assert.ErrorIs(t, err, ErrAlreadyVerified)
	})
}
