package api

import "net/url"

const LoginPath = "/api/users/login"

// Endpoints are the CRUD routes under one resource base such as /api/users.
type Endpoints struct {
	Base string
}

func (e Endpoints) GetAllBy(accountID string) string {
	return e.Base + "/getAllBy/" + url.PathEscape(accountID)
}

func (e Endpoints) Save() string { return e.Base + "/save" }

func (e Endpoints) Update(id string) string { return e.Base + "/update/" + url.PathEscape(id) }

func (e Endpoints) Delete() string { return e.Base + "/delete" }

func (e Endpoints) GetByID(id string) string { return e.Base + "/getById/" + url.PathEscape(id) }
