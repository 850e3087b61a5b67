package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNegativeValue is returned when an action carries a negative amount, rate or quantity
var ErrNegativeValue = errors.New("negative values are not allowed")

// ErrUnknownSigner is returned when a signer role is neither finance nor approver
var ErrUnknownSigner = errors.New("unknown signer role")

// Action is one user edit applied to a State by Reduce.
// The set of variants is closed; each editable field has its own type.
type Action interface {
	apply(s State) (State, error)
}

// Reduce applies a to s and returns the resulting state. On error the
// input state is returned untouched. Reduce never mutates s in place.
func Reduce(s State, a Action) (State, error) {
	if a == nil {
		return s, nil
	}
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// ReduceAll folds actions over s, stopping at the first rejected action
func ReduceAll(s State, actions ...Action) (State, error) {
	for i, a := range actions {
		next, err := Reduce(s, a)
		if err != nil {
			return s, fmt.Errorf("action %d: %w", i, err)
		}
		s = next
	}
	return s, nil
}

// ParseQty coerces form input to a quantity. The leading integer is kept and
// the rest dropped, so "2.5" is 2 and "3 pcs" is 3; input without one becomes 0.
func ParseQty(input string) int {
	input = strings.TrimSpace(input)
	end := 0
	if end < len(input) && (input[end] == '-' || input[end] == '+') {
		end++
	}
	digits := end
	for end < len(input) && input[end] >= '0' && input[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.Atoi(input[:end])
	if err != nil {
		return 0
	}
	return v
}

// ParseAmount coerces form input to a decimal; anything unparseable becomes 0
func ParseAmount(input string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero
	}
	return v
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%s: %w", field, ErrNegativeValue)
	}
	return nil
}

// Client and identity fields

type SetClientName struct{ Value string }

func (a SetClientName) apply(s State) (State, error) { s.ClientName = a.Value; return s, nil }

type SetPICName struct{ Value string }

func (a SetPICName) apply(s State) (State, error) { s.PICName = a.Value; return s, nil }

type SetClientEmail struct{ Value string }

func (a SetClientEmail) apply(s State) (State, error) { s.ClientEmail = a.Value; return s, nil }

type SetClientAddress struct{ Value string }

func (a SetClientAddress) apply(s State) (State, error) { s.ClientAddress = a.Value; return s, nil }

type SetInvoiceNumber struct{ Value string }

func (a SetInvoiceNumber) apply(s State) (State, error) { s.InvoiceNumber = a.Value; return s, nil }

type SetInvoiceDate struct{ Value DateOnly }

func (a SetInvoiceDate) apply(s State) (State, error) { s.InvoiceDate = a.Value; return s, nil }

type SetDueDate struct{ Value DateOnly }

func (a SetDueDate) apply(s State) (State, error) { s.DueDate = a.Value; return s, nil }

type SetSubject struct{ Value string }

func (a SetSubject) apply(s State) (State, error) { s.Subject = a.Value; return s, nil }

type SetPONumber struct{ Value string }

func (a SetPONumber) apply(s State) (State, error) { s.PONumber = a.Value; return s, nil }

// Discount and taxes

type SetDiscount struct{ Value decimal.Decimal }

func (a SetDiscount) apply(s State) (State, error) {
	if err := nonNegative("discount", a.Value); err != nil {
		return s, err
	}
	s.Discount = a.Value
	return s, nil
}

type SetPPNEnabled struct{ Value bool }

func (a SetPPNEnabled) apply(s State) (State, error) { s.PPNEnabled = a.Value; return s, nil }

type SetPPNRate struct{ Value decimal.Decimal }

func (a SetPPNRate) apply(s State) (State, error) {
	if err := nonNegative("ppnRate", a.Value); err != nil {
		return s, err
	}
	s.PPNRate = a.Value
	return s, nil
}

type SetPPhEnabled struct{ Value bool }

func (a SetPPhEnabled) apply(s State) (State, error) { s.PPhEnabled = a.Value; return s, nil }

type SetPPhRate struct{ Value decimal.Decimal }

func (a SetPPhRate) apply(s State) (State, error) {
	if err := nonNegative("pphRate", a.Value); err != nil {
		return s, err
	}
	s.PPhRate = a.Value
	return s, nil
}

// Signers

// SetSigner sets the printed name and position for a signer role
type SetSigner struct {
	Role     Signer
	Name     string
	Position string
}

func (a SetSigner) apply(s State) (State, error) {
	switch a.Role {
	case SignerFinance:
		s.FinanceName, s.FinancePosition = a.Name, a.Position
	case SignerApprover:
		s.ApproverName, s.ApproverPosition = a.Name, a.Position
	default:
		return s, fmt.Errorf("%q: %w", a.Role, ErrUnknownSigner)
	}
	return s, nil
}

// SetSignature stores an opaque signature image payload (usually a data URL)
type SetSignature struct {
	Role    Signer
	Payload string
}

func (a SetSignature) apply(s State) (State, error) {
	switch a.Role {
	case SignerFinance:
		s.FinanceSignature = a.Payload
	case SignerApprover:
		s.ApproverSignature = a.Payload
	default:
		return s, fmt.Errorf("%q: %w", a.Role, ErrUnknownSigner)
	}
	return s, nil
}

// Service items

// AddService appends an empty line with qty 1 and a fresh ID
type AddService struct{}

func (AddService) apply(s State) (State, error) {
	id := s.NextServiceID
	for _, item := range s.Services {
		if item.ID >= id {
			id = item.ID + 1
		}
	}
	if id < 1 {
		id = 1
	}

	services := make([]ServiceItem, len(s.Services), len(s.Services)+1)
	copy(services, s.Services)
	s.Services = append(services, ServiceItem{ID: id, Qty: 1})
	s.NextServiceID = id + 1
	return s, nil
}

// RemoveService drops the line with the given ID; unknown IDs are ignored
type RemoveService struct{ ID int }

func (a RemoveService) apply(s State) (State, error) {
	idx := s.serviceIndex(a.ID)
	if idx < 0 {
		return s, nil
	}
	services := make([]ServiceItem, 0, len(s.Services)-1)
	services = append(services, s.Services[:idx]...)
	s.Services = append(services, s.Services[idx+1:]...)
	return s, nil
}

type UpdateServiceName struct {
	ID    int
	Value string
}

func (a UpdateServiceName) apply(s State) (State, error) {
	return s.updateService(a.ID, func(item *ServiceItem) { item.Name = a.Value }), nil
}

type UpdateServicePackage struct {
	ID    int
	Value string
}

func (a UpdateServicePackage) apply(s State) (State, error) {
	return s.updateService(a.ID, func(item *ServiceItem) { item.Package = a.Value }), nil
}

type UpdateServiceQty struct {
	ID    int
	Value int
}

func (a UpdateServiceQty) apply(s State) (State, error) {
	if a.Value < 0 {
		return s, fmt.Errorf("qty: %w", ErrNegativeValue)
	}
	return s.updateService(a.ID, func(item *ServiceItem) {
		item.Qty = a.Value
		item.Subtotal = item.LineTotal()
	}), nil
}

type UpdateServiceUnitPrice struct {
	ID    int
	Value decimal.Decimal
}

func (a UpdateServiceUnitPrice) apply(s State) (State, error) {
	if err := nonNegative("unitPrice", a.Value); err != nil {
		return s, err
	}
	return s.updateService(a.ID, func(item *ServiceItem) {
		item.UnitPrice = a.Value
		item.Subtotal = item.LineTotal()
	}), nil
}

// ReplaceState swaps in a whole state, e.g. one restored from a share link
type ReplaceState struct{ State State }

func (a ReplaceState) apply(State) (State, error) { return a.State, nil }

func (s State) serviceIndex(id int) int {
	for i, item := range s.Services {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// updateService copies the services slice with one item edited. When the ID
// is absent s is returned as is, sharing its backing array.
func (s State) updateService(id int, edit func(item *ServiceItem)) State {
	idx := s.serviceIndex(id)
	if idx < 0 {
		return s
	}
	services := make([]ServiceItem, len(s.Services))
	copy(services, s.Services)
	edit(&services[idx])
	s.Services = services
	return s
}
