package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the single-page shell. All data arrives through
// the datastar SSE endpoints once the page has loaded.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Superstore BI</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1c1e21}
header{background:#1c2942;color:#fff;padding:1rem 2rem}
main{padding:1.5rem 2rem;display:grid;gap:1.5rem}
.kpi-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(160px,1fr));gap:1rem}
.kpi-card{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.08)}
.kpi-label{display:block;font-size:.8rem;color:#65676b;margin-bottom:.25rem}
section{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.08)}
</style>
</head>
<body>
<header>
<h1>Superstore BI</h1>
</header>
<main data-on-load="@get('/sse/kpi'); @get('/sse/charts')">
<div id="kpi-content">Loading KPIs…</div>
<section>
<h2>Charts</h2>
<div id="charts-content">Loading chart data…</div>
</section>
<section>
<h2>Actions</h2>
<button data-on-click="@get('/sse/refresh-all')">Refresh</button>
<a href="/api/export">Export Excel</a>
</section>
</main>
</body>
</html>`
