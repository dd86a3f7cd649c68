package jira

// Wire types for the /rest/api/3/search exchange. The response is decoded
// into this schema once; every field an issue may or may not carry is a
// pointer or slice so that absence survives decoding and the mapping in
// issue.go can branch on it.

type searchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	Issues []issueNode `json:"issues"`
}

type issueNode struct {
	ID     *string    `json:"id"`
	Key    *string    `json:"key"`
	Fields fieldsNode `json:"fields"`
}

type fieldsNode struct {
	Summary     *string       `json:"summary"`
	Title       *string       `json:"title"`
	Assignee    *personNode   `json:"assignee"`
	Reporter    *personNode   `json:"reporter"`
	Created     *string       `json:"created"`
	Updated     *string       `json:"updated"`
	IssueType   *namedNode    `json:"issuetype"`
	Priority    *namedNode    `json:"priority"`
	Resolution  *namedNode    `json:"resolution"`
	Status      *namedNode    `json:"status"`
	Components  []namedNode   `json:"components"`
	FixVersions []namedNode   `json:"fixVersions"`
	Versions    []namedNode   `json:"versions"`
	Comment     *commentsNode `json:"comment"`
}

// personNode is an assignee or reporter. Server flavors differ: Cloud sends
// displayName, older servers send name.
type personNode struct {
	DisplayName *string `json:"displayName"`
	Name        *string `json:"name"`
}

type namedNode struct {
	Name string `json:"name"`
}

type commentsNode struct {
	Comments []commentNode `json:"comments"`
}

type commentNode struct {
	Body string `json:"body"`
}
