package models

import (
	"fmt"
	"time"
)

// AdminLogin is the privileged caller name; it selects the admin token
// formula and the fixed admin score.
const AdminLogin = "admin"

// Supported method names.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// Field error policy: construction stops at the first failing field, in
// declaration order. Each field is evaluated exactly once.

// MethodRequest is the common request envelope.
type MethodRequest struct {
	Account   string
	Login     string
	Token     string
	Arguments map[string]any
	Method    string
}

var (
	fieldAccount   = CharField{Spec{Name: "account", Nullable: true}}
	fieldLogin     = CharField{Spec{Name: "login", Required: true, Nullable: true}}
	fieldToken     = CharField{Spec{Name: "token", Required: true, Nullable: true}}
	fieldArguments = ArgumentsField{Spec{Name: "arguments", Required: true, Nullable: true}}
	fieldMethod    = CharField{Spec{Name: "method", Required: true}}
)

// NewMethodRequest assembles and validates the envelope from the raw body.
func NewMethodRequest(body map[string]any) (*MethodRequest, error) {
	r := &MethodRequest{}
	var err error
	if r.Account, err = fieldAccount.Validate(lookup(body, "account")); err != nil {
		return nil, err
	}
	if r.Login, err = fieldLogin.Validate(lookup(body, "login")); err != nil {
		return nil, err
	}
	if r.Token, err = fieldToken.Validate(lookup(body, "token")); err != nil {
		return nil, err
	}
	if r.Arguments, err = fieldArguments.Validate(lookup(body, "arguments")); err != nil {
		return nil, err
	}
	if r.Method, err = fieldMethod.Validate(lookup(body, "method")); err != nil {
		return nil, err
	}
	return r, nil
}

// IsAdmin reports whether the caller is the privileged admin login.
func (r *MethodRequest) IsAdmin() bool {
	return r.Login == AdminLogin
}

// scorePairs are the field combinations of which at least one must be fully
// supplied for a score request to be valid.
var scorePairs = [][2]string{
	{"phone", "email"},
	{"first_name", "last_name"},
	{"gender", "birthday"},
}

// scoreFieldOrder fixes the declaration order of score request fields for
// evaluation and for the supplied-fields audit payload.
var scoreFieldOrder = []string{"first_name", "last_name", "email", "phone", "birthday", "gender"}

// OnlineScoreRequest carries the profile fragments a score is computed from.
type OnlineScoreRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time
	Gender    int64

	supplied map[string]bool
}

var (
	fieldFirstName = CharField{Spec{Name: "first_name", Nullable: true}}
	fieldLastName  = CharField{Spec{Name: "last_name", Nullable: true}}
	fieldEmail     = EmailField{Spec{Name: "email", Nullable: true}}
	fieldPhone     = PhoneField{Spec{Name: "phone", Nullable: true}}
	fieldBirthday  = BirthDayField{Spec: Spec{Name: "birthday", Nullable: true}, MaxAge: 70}
	fieldGender    = GenderField{Spec{Name: "gender", Nullable: true}}
)

// NewOnlineScoreRequest assembles a score request from the arguments mapping
// and enforces the cross-field invariant: at least one of (phone, email),
// (first_name, last_name), (gender, birthday) must be fully supplied.
func NewOnlineScoreRequest(args map[string]any) (*OnlineScoreRequest, error) {
	r := &OnlineScoreRequest{supplied: make(map[string]bool, len(scoreFieldOrder))}
	var err error
	if r.FirstName, err = fieldFirstName.Validate(lookup(args, "first_name")); err != nil {
		return nil, err
	}
	if r.LastName, err = fieldLastName.Validate(lookup(args, "last_name")); err != nil {
		return nil, err
	}
	if r.Email, err = fieldEmail.Validate(lookup(args, "email")); err != nil {
		return nil, err
	}
	if r.Phone, err = fieldPhone.Validate(lookup(args, "phone")); err != nil {
		return nil, err
	}
	if r.Birthday, err = fieldBirthday.Validate(lookup(args, "birthday")); err != nil {
		return nil, err
	}
	if r.Gender, err = fieldGender.Validate(lookup(args, "gender")); err != nil {
		return nil, err
	}

	for _, name := range scoreFieldOrder {
		raw, present := lookup(args, name)
		r.supplied[name] = present && !isEmpty(raw)
	}

	for _, pair := range scorePairs {
		if r.supplied[pair[0]] && r.supplied[pair[1]] {
			return r, nil
		}
	}
	return nil, fmt.Errorf("not enough arguments: expected one of the pairs %v to be supplied", scorePairs)
}

// Has reports whether the named field was supplied with a non-empty value.
func (r *OnlineScoreRequest) Has(name string) bool {
	return r.supplied[name]
}

// SuppliedFields lists the supplied fields in declaration order, for the
// response audit payload.
func (r *OnlineScoreRequest) SuppliedFields() []string {
	fields := make([]string, 0, len(scoreFieldOrder))
	for _, name := range scoreFieldOrder {
		if r.supplied[name] {
			fields = append(fields, name)
		}
	}
	return fields
}

// ClientsInterestsRequest carries the client ids whose interests are looked up.
type ClientsInterestsRequest struct {
	ClientIDs []int64
	Date      time.Time
}

var (
	fieldClientIDs = ClientIDsField{Spec: Spec{Name: "client_ids", Required: true}, MinLen: 1}
	fieldDate      = DateField{Spec{Name: "date", Nullable: true}}
)

// NewClientsInterestsRequest assembles an interests request from the
// arguments mapping.
func NewClientsInterestsRequest(args map[string]any) (*ClientsInterestsRequest, error) {
	r := &ClientsInterestsRequest{}
	var err error
	if r.ClientIDs, err = fieldClientIDs.Validate(lookup(args, "client_ids")); err != nil {
		return nil, err
	}
	if r.Date, err = fieldDate.Validate(lookup(args, "date")); err != nil {
		return nil, err
	}
	return r, nil
}

// NClients returns the number of requested client ids.
func (r *ClientsInterestsRequest) NClients() int {
	return len(r.ClientIDs)
}

func lookup(m map[string]any, key string) (any, bool) {
	raw, present := m[key]
	return raw, present
}
