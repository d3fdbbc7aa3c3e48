package server

import "html/template"

type indexData struct {
	MaxUploadMB int64
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>leapdoi</title>
<style>
body { font-family: "Times New Roman", serif; max-width: 42rem; margin: 2rem auto; }
fieldset { margin-bottom: 1.5rem; }
label { display: block; margin: .5rem 0; }
small { color: #666; }
</style>
</head>
<body>
<h1>Division of Interest reports</h1>
<p><small>Uploads are limited to {{.MaxUploadMB}} MB.</small></p>

<form method="post" action="/api/reports/tract-based" enctype="multipart/form-data">
<fieldset>
<legend>Tract-Based Ownership</legend>
<label>Combined data <input type="file" name="combined" accept=".xlsx" required></label>
<button type="submit">Generate</button>
</fieldset>
</form>

<form method="post" action="/api/reports/unit-based" enctype="multipart/form-data">
<fieldset>
<legend>Unit-Based DOI</legend>
<label>Combined data <input type="file" name="combined" accept=".xlsx" required></label>
<label>Schedule (Tract List) <input type="file" name="schedule" accept=".xlsx" required></label>
<button type="submit">Generate</button>
</fieldset>
</form>

<form method="post" action="/api/preview" enctype="multipart/form-data">
<fieldset>
<legend>Preview</legend>
<label>Combined data <input type="file" name="combined" accept=".xlsx" required></label>
<label>Schedule (optional) <input type="file" name="schedule" accept=".xlsx"></label>
<button type="submit">Preview</button>
</fieldset>
</form>
</body>
</html>
`))
