package linear

// Issue is a Linear issue as returned by FetchIssue. It is not modified after
// the fetch completes.
type Issue struct {
	ID          string
	Identifier  string // e.g., "ENG-123"
	Title       string
	Description string
	URL         string
	Children    []SubIssue
	Comments    []Comment
}

// SubIssue is a child issue of an Issue.
type SubIssue struct {
	Identifier  string
	Title       string
	Description string
}

// Comment is a comment on an Issue.
type Comment struct {
	Author    string
	Body      string
	CreatedAt string
}

// HasChildren reports whether the issue has sub-issues.
func (i *Issue) HasChildren() bool {
	return len(i.Children) > 0
}

// Wire types mirror the GraphQL response shape.

type issueNode struct {
	ID          string        `json:"id"`
	Identifier  string        `json:"identifier"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	URL         string        `json:"url"`
	Children    *childNodes   `json:"children"`
	Comments    *commentNodes `json:"comments"`
}

type childNodes struct {
	Nodes []struct {
		Identifier  string  `json:"identifier"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
	} `json:"nodes"`
}

type commentNodes struct {
	Nodes []struct {
		Body      string `json:"body"`
		CreatedAt string `json:"createdAt"`
		User      *struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"nodes"`
}

func (n *issueNode) toIssue() *Issue {
	issue := &Issue{
		ID:          n.ID,
		Identifier:  n.Identifier,
		Title:       n.Title,
		Description: deref(n.Description),
		URL:         n.URL,
	}
	if n.Children != nil {
		for _, c := range n.Children.Nodes {
			issue.Children = append(issue.Children, SubIssue{
				Identifier:  c.Identifier,
				Title:       c.Title,
				Description: deref(c.Description),
			})
		}
	}
	if n.Comments != nil {
		for _, c := range n.Comments.Nodes {
			author := "unknown"
			if c.User != nil {
				author = c.User.DisplayName
				if author == "" {
					author = c.User.Name
				}
			}
			issue.Comments = append(issue.Comments, Comment{
				Author:    author,
				Body:      c.Body,
				CreatedAt: c.CreatedAt,
			})
		}
	}
	return issue
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
