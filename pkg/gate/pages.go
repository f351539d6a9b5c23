package gate

import (
	"html/template"
	"net/http"
)

// pageData feeds the terminal page template.
type pageData struct {
	Title   string
	Reason  string
	Support string
}

var pageTemplate = template.Must(template.New("suspended").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; background: #f5f5f5; }
main { max-width: 28rem; padding: 2rem; background: #fff; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,.1); text-align: center; }
h1 { font-size: 1.25rem; }
p { color: #555; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>{{.Reason}}.</p>
{{if .Support}}<p>Need help? Contact <a href="mailto:{{.Support}}">{{.Support}}</a>.</p>{{end}}
</main>
</body>
</html>
`))

var stageTitles = map[Stage]string{
	StageUser:         "Account suspended",
	StageBusiness:     "Business suspended",
	StageSubscription: "Subscription suspended",
	StageEmployee:     "Access revoked",
}

// RenderBlock writes the stage-specific terminal page. Each stage gets a
// distinct title so the client can tell "your account is disabled" from
// "this business is suspended" from "your seat was revoked".
func RenderBlock(w http.ResponseWriter, block Block, supportContact string) {
	title, ok := stageTitles[block.Stage]
	if !ok {
		title = "Access suspended"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = pageTemplate.Execute(w, pageData{
		Title:   title,
		Reason:  block.Reason,
		Support: supportContact,
	})
}
