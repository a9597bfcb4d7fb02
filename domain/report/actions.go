package report

// RecommendedActions is the fixed guidance block shown on every functional report
const RecommendedActions = `- **Block or rate-limit** top suspicious IPs or User-Agents.
- **Patch/remove legacy endpoints** (e.g., ` + "`/cgi-bin/*`" + `).
- **Restrict HTTP methods** to only ` + "`GET`, `POST`, `HEAD`" + `.
- **Enable WAF rules** for SQL keywords and path traversal.
- **Investigate repeated server errors (5xx)** in logs.
`
