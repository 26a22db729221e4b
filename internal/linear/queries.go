package linear

import "strings"

// IdentifierKind tells which request variant is used for an identifier.
type IdentifierKind int

const (
	// KindKey is a human-readable key such as "ENG-123".
	KindKey IdentifierKind = iota
	// KindID is a raw identifier without a separator.
	KindID
)

func (k IdentifierKind) String() string {
	if k == KindKey {
		return "key"
	}
	return "id"
}

// keySeparator splits the team key from the issue number.
const keySeparator = "-"

// Classify returns KindKey when identifier contains the key separator.
func Classify(identifier string) IdentifierKind {
	if strings.Contains(identifier, keySeparator) {
		return KindKey
	}
	return KindID
}

// issueFields is shared by every variant so both return the same shape.
const issueFields = `
    id
    identifier
    title
    description
    url
    children(first: 100) {
      nodes {
        identifier
        title
        description
      }
    }
    comments(first: 50) {
      nodes {
        body
        createdAt
        user {
          name
          displayName
        }
      }
    }`

// Request is a GraphQL request body.
type Request struct {
	OperationName string                 `json:"operationName"`
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// BuildQuery returns the request for identifier of the given kind. Linear's
// issue(id:) field resolves both readable keys and UUIDs, so the variants differ
// only in operation name.
func BuildQuery(kind IdentifierKind, identifier string) Request {
	op := "IssueByID"
	if kind == KindKey {
		op = "IssueByKey"
		identifier = strings.TrimSpace(identifier)
	}
	return Request{
		OperationName: op,
		Query:         "query " + op + "($id: String!) {\n  issue(id: $id) {" + issueFields + "\n  }\n}\n",
		Variables:     map[string]interface{}{"id": identifier},
	}
}
