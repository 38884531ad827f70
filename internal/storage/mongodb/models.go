package mongodb

type Models struct {
	Users   *UserModel
	Reviews *ReviewModel
}

func NewModels(db *Storage) *Models {
	return &Models{
		Users:   NewUserModel(db),
		Reviews: NewReviewModel(db),
	}
}
