package auth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

type UserStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, token, oneTimeToken string, oneTimeExpiry time.Time) (*models.User, error)
	SetVerificationToken(ctx context.Context, email, token string, expiry time.Time) (*models.User, error)
	ConsumeOneTimeToken(ctx context.Context, token string) (*models.User, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type Config struct {
	Secret          string
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	OneTimeTTL      time.Duration
	BcryptCost      int
	SiteURL         string
}

type AuthService struct {
	log          *slog.Logger
	users        UserStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	cfg          Config
}

func New(
	log *slog.Logger,
	users UserStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	cfg Config,
) *AuthService {
	return &AuthService{
		log:          log,
		users:        users,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		cfg:          cfg,
	}
}

type SignupParams struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Gender    models.Gender
}

// profilePictureURL picks the avatar deterministically from gender and
// username at creation time.
func profilePictureURL(gender models.Gender, username string) string {
	q := url.QueryEscape(username)
	switch gender {
	case models.GenderMale:
		return "https://avatar.iran.liara.run/public/boy?username=" + q
	case models.GenderFemale:
		return "https://avatar.iran.liara.run/public/girl?username=" + q
	default:
		return "https://avatar.iran.liara.run/username?username=" + q
	}
}

// Signup creates an unverified account and dispatches the verification
// email on the background pool. The caller gets the public identity only,
// never the hash.
func (a *AuthService) Signup(ctx context.Context, params SignupParams) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "email", params.Email)

	if _, err := a.users.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error("checking email", "errMsg", err.Error())
		return nil, err
	}
	if _, err := a.users.GetByUsername(ctx, params.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error("checking username", "errMsg", err.Error())
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	verificationToken, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(a.cfg.VerificationTTL)
	user := &models.User{
		FirstName:                    params.FirstName,
		LastName:                     params.LastName,
		Username:                     params.Username,
		Email:                        params.Email,
		PasswordHash:                 hash,
		Gender:                       params.Gender,
		ProfilePicture:               profilePictureURL(params.Gender, params.Username),
		IsEmailVerified:              false,
		EmailVerificationToken:       verificationToken,
		EmailVerificationTokenExpiry: &expiry,
		WatchList:                    []models.ListEntry{},
		Watched:                      []models.ListEntry{},
	}
	created, err := a.users.Insert(ctx, user)
	if err != nil {
		// a concurrent signup with the same email/username loses on the
		// unique index
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUserExists
		}
		log.Error("inserting user", "errMsg", err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendVerificationEmail(created.Email, created.Username, verificationToken)
	})
	return created, nil
}

func (a *AuthService) sendVerificationEmail(email, username, token string) {
	a.log.Info("sending verification email", "email", email)
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", a.cfg.SiteURL, token)
	err := a.mailer.Send(email, "verify_email.html", map[string]any{
		"username":        username,
		"verificationURL": template.URL(verificationURL),
	})
	if err != nil {
		a.log.Error("Error sending verification email", "errMsg", err.Error())
	}
}

// VerifyEmail consumes a verification token. On success it returns the
// verified user and a short-lived single-use login token; re-presenting a
// consumed token yields ErrAlreadyVerified rather than ErrInvalidToken.
func (a *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, string, error) {
	const op = "auth.AuthService.VerifyEmail"
	log := a.log.With("op", op)

	oneTimeToken, err := GenerateToken()
	if err != nil {
		return nil, "", err
	}
	user, err := a.users.MarkVerified(ctx, token, oneTimeToken, time.Now().Add(a.cfg.OneTimeTTL))
	if err == nil {
		log.Info("email verified", "user_id", user.ID.Hex())
		return user, oneTimeToken, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, "", err
	}
	// the conditional update matched nothing: the token is unknown,
	// expired, or already consumed
	holder, lookupErr := a.users.GetByVerificationToken(ctx, token)
	if lookupErr == nil && holder.IsEmailVerified {
		return holder, "", ErrAlreadyVerified
	}
	return nil, "", ErrInvalidToken
}

// ResendVerification issues a fresh token for an unverified account and
// emails it.
func (a *AuthService) ResendVerification(ctx context.Context, email string) error {
	const op = "auth.AuthService.ResendVerification"
	log := a.log.With("op", op, "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}
	token, err := GenerateToken()
	if err != nil {
		return err
	}
	if _, err := a.users.SetVerificationToken(ctx, email, token, time.Now().Add(a.cfg.VerificationTTL)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// verified concurrently
			return ErrAlreadyVerified
		}
		log.Error(err.Error())
		return err
	}
	a.taskExecutor.Add(func() {
		a.sendVerificationEmail(user.Email, user.Username, token)
	})
	return nil
}

// Login checks credentials and mints a session artifact. All credential
// failures map to ErrInvalidCredentials; only the unverified case gets its
// own error so the caller can point the user at verification.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		log.Error(err.Error())
		return "", nil, err
	}
	if !user.IsEmailVerified {
		return "", nil, ErrEmailNotVerified
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := a.mintSession(user)
	if err != nil {
		log.Error("minting session", "errMsg", err.Error())
		return "", nil, err
	}
	return token, user, nil
}

// OneTimeLogin exchanges the single-use post-verification token for a
// regular session. The token is cleared atomically on use.
func (a *AuthService) OneTimeLogin(ctx context.Context, token string) (string, *models.User, error) {
	const op = "auth.AuthService.OneTimeLogin"
	log := a.log.With("op", op)

	user, err := a.users.ConsumeOneTimeToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidToken
		}
		log.Error(err.Error())
		return "", nil, err
	}
	session, err := a.mintSession(user)
	if err != nil {
		log.Error("minting session", "errMsg", err.Error())
		return "", nil, err
	}
	return session, user, nil
}

func (a *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
