package domain

import "time"

// Client клиент клиники
type Client struct {
	ID        string
	UserID    *string // связанный пользователь портала (может отсутствовать)
	FirstName string
	LastName  string
	DNI       string // документ, удостоверяющий личность
	Email     string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns "FirstName LastName".
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ClientSummary краткие данные клиента для поиска
type ClientSummary struct {
	ID    string
	Name  string
	DNI   string
	Email string
}

// Summary returns the search projection of the client.
func (c *Client) Summary() ClientSummary {
	return ClientSummary{ID: c.ID, Name: c.FullName(), DNI: c.DNI, Email: c.Email}
}

// Employee сотрудник (специалист), к которому записываются клиенты
type Employee struct {
	ID        string
	Name      string
	Specialty string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
