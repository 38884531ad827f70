package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"popcorn/proj/internal/domain/fields"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ListName names one of the two per-user movie lists.
type ListName string

const (
	ListWatchlist ListName = "watchList"
	ListWatched   ListName = "watched"
)

func (l ListName) IsValid() bool {
	return l == ListWatchlist || l == ListWatched
}

// ListEntry is one movie/show reference inside a user's watchlist or
// watched list. Entries have no identity outside their parent user.
type ListEntry struct {
	MovieID    int64     `bson:"movieId" json:"movieId"`
	Title      string    `bson:"title" json:"title"`
	CoverImage string    `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	AddedAt    time.Time `bson:"addedAt" json:"addedAt"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   []byte             `bson:"password" json:"-"`
	Gender         Gender             `bson:"gender" json:"gender"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`

	IsEmailVerified bool `bson:"isEmailVerified" json:"isEmailVerified"`
	// EmailVerificationToken stays on the document after verification so a
	// re-presented token resolves to "already verified" instead of "invalid".
	EmailVerificationToken       string     `bson:"emailVerificationToken,omitempty" json:"-"`
	EmailVerificationTokenExpiry *time.Time `bson:"emailVerificationTokenExpiry,omitempty" json:"-"`

	// One-time login token minted on successful verification, exchangeable
	// for a session exactly once within its expiry.
	OneTimeLoginToken       string     `bson:"oneTimeLoginToken,omitempty" json:"-"`
	OneTimeLoginTokenExpiry *time.Time `bson:"oneTimeLoginTokenExpiry,omitempty" json:"-"`

	WatchList []ListEntry `bson:"watchList" json:"watchList"`
	Watched   []ListEntry `bson:"watched" json:"watched"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID.Hex(),
		Email:          u.Email,
		Username:       u.Username,
		Name:           u.FullName(),
		ProfilePicture: u.ProfilePicture,
		Verified:       u.IsEmailVerified,
	}
}

// PublicUser is the projection of a user safe to hand to any caller.
type PublicUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Verified       bool   `json:"verified"`
}

// SessionUser is the identity derived from session claims and attached to
// every request. It is never read back from the database.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

var AnonymousUser = &SessionUser{}

func (u *SessionUser) IsAnonymous() bool {
	return u == AnonymousUser
}

// UserRef is the minimal public projection of a review author.
type UserRef struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Username       string             `bson:"username" json:"username"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
}

// Reply is reserved: the stored shape carries replies but no route serves
// them yet.
type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	ReplyText string               `bson:"replyText" json:"replyText"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MovieID int64              `bson:"movieId" json:"movieId"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	// Author is populated by a lookup at read sites and never stored.
	Author     *UserRef             `bson:"author,omitempty" json:"author,omitempty"`
	Rating     fields.Rating        `bson:"rating" json:"rating"`
	ReviewText string               `bson:"reviewText,omitempty" json:"reviewText,omitempty"`
	Replies    []Reply              `bson:"replies,omitempty" json:"-"`
	Likes      []primitive.ObjectID `bson:"likes,omitempty" json:"-"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
}

// AuthorRef normalizes the review's author reference: the populated identity
// when a read site looked it up, otherwise a bare reference carrying only
// the id.
func (r *Review) AuthorRef() UserRef {
	if r.Author != nil {
		return *r.Author
	}
	return UserRef{ID: r.UserID}
}
