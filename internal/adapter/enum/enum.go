// Package enum holds the closed value sets the production applications route
// validates before anything reaches the upstream.
package enum

import (
	"regexp"
	"strings"
)

// Domain is a named, ordered, closed set of literals
type Domain struct {
	members map[string]struct{}
	Name    string
	values  []string
}

func NewDomain(name string, values ...string) *Domain {
	d := &Domain{
		Name:    name,
		values:  append([]string(nil), values...),
		members: make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		d.members[v] = struct{}{}
	}
	return d
}

// Values returns the literals in declaration order
func (d *Domain) Values() []string {
	return append([]string(nil), d.values...)
}

func (d *Domain) Len() int {
	return len(d.values)
}

// IsMember reports whether candidate is exactly one of the domain's literals.
// Matching is case sensitive with no trimming.
func IsMember(d *Domain, candidate string) bool {
	if d == nil {
		return false
	}
	_, ok := d.members[candidate]
	return ok
}

// Partition splits candidates into members and rejects, keeping input order
func Partition(d *Domain, candidates []string) (valid, dropped []string) {
	for _, c := range candidates {
		if IsMember(d, c) {
			valid = append(valid, c)
		} else {
			dropped = append(dropped, c)
		}
	}
	return valid, dropped
}

const DefaultApplicationSort = "createdDate,asc"

var ApplicationSorts = NewDomain("sort",
	"modifiedDate,desc",
	"modifiedDate,asc",
	"createdDate,asc",
	"createdDate,desc",
)

var ApplicationStatuses = NewDomain("mainStatus",
	// common
	"OPEN",
	"CLIENT_INFORMED",
	// live profile applications
	"LOCKED",
	"UNLOCKED",
	// OpenPayd
	"PENDING_ON_CUSTOMER",
	"PENDING_ON_CUSTOMER_SECOND",
	"PENDING_SALES_TEAM",
	"PENDING_ONBOARDING_COMPLIANCE_FIRST",
	"PENDING_BANKING",
	"PENDING_INTERNAL_CHECKING",
	"PENDING_INTEGRATION_CHECKING",
	"PENDING_ONBOARDING_COMPLIANCE_SECOND_LINE",
	"PENDING_ONBOARDING_COMPLIANCE_THIRD",
	"PENDING_UK_MLRO",
	"PENDING_MALTA_MLRO",
	"PENDING_SALES_TEAM_FINAL",
	"COMPLETED",
	"EXPIRED",
	"PENDING_SENIOR_COMPLIANCE",
	"PENDING_ONBOARDING_OPERATIONS",
	"PENDING_ONBOARDING_OPERATIONS_SECOND",
	"PENDING_FORMS_SIGNATURE",
	"PENDING_REVIEW_COMPLIANCE",
	"PENDING_REVIEW_SENIOR_COMPLIANCE",
	// EMB
	"PENDING_AML_TEAM_PREQUESTIONNAIRE",
	"PENDING_BOARD_MEMBER",
	"PENDING_ON_CUSTOMER_FURTHER_FORMS",
	"PENDING_AML_TEAM",
	"PENDING_RISK_SCORE_CHECK",
	"PENDING_PEP_CHECK",
	"PENDING_ON_CUSTOMER_FURTHER_INFO",
	"PENDING_ON_SALES_TEAM_FINAL_STAGE",
	"PENDING_MLRO_MANAGER",
	"PENDING_MLRO_MANAGER_AFTER_AML",
	"PENDING_ON_SALES_TEAM_AFTER_MLRO",
	"PENDING_ON_SALES_TEAM_HIGH_RISK",
	"PENDING_ON_SALES_TEAM_PREQUESTIONNAIRE",
	"PENDING_ON_CUSTOMER_PREQUESTIONNAIRE",
	"PENDING_PREQUESTIONNAIRE_CHECK",
)

var encodedComma = regexp.MustCompile(`(?i)%2C`)

// NormaliseSort trims the value and decodes a leftover %2C, which shows up
// when clients encode the comma twice
func NormaliseSort(value string) string {
	return encodedComma.ReplaceAllLiteralString(strings.TrimSpace(value), ",")
}

// SelectSort picks the last valid sort among candidates, falling back to
// DefaultApplicationSort. The returned bool is false when the fallback was used.
func SelectSort(candidates []string) (string, bool) {
	selected, ok := DefaultApplicationSort, false
	for _, c := range candidates {
		if n := NormaliseSort(c); IsMember(ApplicationSorts, n) {
			selected, ok = n, true
		}
	}
	return selected, ok
}
