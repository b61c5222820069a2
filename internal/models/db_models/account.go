package db_models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	BaseModel
	Name                   string
	Email                  string `gorm:"unique"`
	PasswordHash           string
	Role                   string `gorm:"default:user"`
	AccountType            string `gorm:"default:individual"`
	QuestionnaireCompleted bool   `gorm:"default:false"`

	Subscription *Subscription `gorm:"foreignKey:AccountID"`
}
