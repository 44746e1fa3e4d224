package http

import (
	"time"

	"bookkeeper/internal/core"
)

const dateLayout = "2006-01-02"

type authenticateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type authenticateResponse struct {
	User  string `json:"user"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type userRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type userResponse struct {
	Name      string            `json:"name"`
	Role      string            `json:"role"`
	CreatedAt time.Time         `json:"createdAt"`
	Profiles  []profileResponse `json:"profiles,omitempty"`
}

func toUserResponse(u core.User) userResponse {
	resp := userResponse{
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	for _, p := range u.Profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(p))
	}
	return resp
}

type profileRequest struct {
	Name           string `json:"name"`
	OpeningBalance string `json:"openingBalance,omitempty"`
}

func (req profileRequest) toProfile() (core.Profile, error) {
	p := core.Profile{Name: req.Name}
	if req.OpeningBalance != "" {
		cents, err := core.ParseCents(req.OpeningBalance)
		if err != nil {
			return core.Profile{}, core.ValidationError("opening balance must be a non-negative decimal amount")
		}
		p.OpeningBalance = &core.Money{Cents: cents}
	}
	return p, nil
}

type profileResponse struct {
	Name           string          `json:"name"`
	OpeningBalance string          `json:"openingBalance,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	Expenses       []entryResponse `json:"expenses,omitempty"`
	Incomes        []entryResponse `json:"incomes,omitempty"`
}

func toProfileResponse(p core.Profile) profileResponse {
	resp := profileResponse{
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
	if p.OpeningBalance != nil {
		resp.OpeningBalance = p.OpeningBalance.String()
	}
	for _, e := range p.Expenses {
		resp.Expenses = append(resp.Expenses, toEntryResponse(e))
	}
	for _, e := range p.Incomes {
		resp.Incomes = append(resp.Incomes, toEntryResponse(e))
	}
	return resp
}

type entryRequest struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// toEntry converts the request body into a domain entry. Parse failures come
// back as validation errors so the handler maps them to 400.
func (req entryRequest) toEntry() (core.Entry, error) {
	var e core.Entry
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return core.Entry{}, core.ValidationError("date must be formatted as YYYY-MM-DD")
		}
		e.Date = date
	}
	cents, err := core.ParseCents(req.Amount)
	if err != nil {
		return core.Entry{}, err
	}
	e.Title = req.Title
	e.Amount = core.Money{Cents: cents}
	e.Description = req.Description
	return e, nil
}

type entryResponse struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Date:        e.Date.Format(dateLayout),
		Title:       e.Title,
		Amount:      e.Amount.String(),
		Description: e.Description,
		Category:    e.CategoryName,
		CreatedAt:   e.CreatedAt,
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type categoryResponse struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

type savingsResponse struct {
	Profile      string `json:"profile"`
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	TotalEconomy string `json:"totalEconomy"`
}

func toSavingsResponse(s core.SavingsResult) savingsResponse {
	return savingsResponse{
		Profile:      s.ProfileName,
		TotalIncome:  s.TotalIncome.String(),
		TotalExpense: s.TotalExpense.String(),
		TotalEconomy: s.TotalEconomy.String(),
	}
}
