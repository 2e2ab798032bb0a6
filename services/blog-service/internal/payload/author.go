package payload

type CreateAuthorRequest struct {
	Name      string `json:"name"      validate:"required"`
	Surname   string `json:"surname"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	BirthDate string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Avatar    string `json:"avatar"    validate:"omitempty,url"`
}

type UpdateAuthorRequest struct {
	Name      *string `json:"name"      validate:"omitempty,min=1"`
	Surname   *string `json:"surname"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Password  *string `json:"password"  validate:"omitempty,min=6"`
	BirthDate *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Avatar    *string `json:"avatar"    validate:"omitempty,url"`
}
