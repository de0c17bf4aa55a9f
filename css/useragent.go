package css

// UserAgentStylesheet holds the default styles applied under every
// document's own stylesheets.
var UserAgentStylesheet = `
head, style, script, title, meta, link, template { display: none; }
body { margin: 8px; }
h1 { font-size: 2em; margin: 8px 0; font-weight: bold; }
h2 { font-size: 1.5em; margin: 6px 0; font-weight: bold; }
p { margin: 6px 0; }
ul, ol { padding-left: 20px; margin: 6px 0; }
span, b, i, a, em, strong, label { display: inline-block; }
b, strong { font-weight: bold; }
`
