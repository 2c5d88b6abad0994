package docgen

const documentHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; margin: 40px; font-size: 13px; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid #1f2933; padding-bottom: 16px; }
  .header img { max-height: 64px; }
  .company { text-align: right; font-size: 12px; color: #52606d; }
  .company .name { font-size: 18px; font-weight: bold; color: #1f2933; }
  h1 { font-size: 26px; text-transform: uppercase; letter-spacing: 2px; margin: 28px 0 4px; }
  .meta { color: #52606d; margin-bottom: 24px; }
  .meta div { margin: 2px 0; }
  table { width: 100%; border-collapse: collapse; margin: 16px 0; }
  th { text-align: left; background: #f1f5f9; padding: 8px; font-size: 11px; text-transform: uppercase; letter-spacing: 1px; color: #52606d; }
  td { padding: 8px; border-bottom: 1px solid #e4e7eb; }
  .num { text-align: right; }
  .totals { margin-left: auto; width: 260px; }
  .totals td { border: none; padding: 4px 8px; }
  .totals .grand td { font-weight: bold; border-top: 2px solid #1f2933; }
  .status { display: inline-block; padding: 3px 10px; border-radius: 3px; background: #f1f5f9; font-size: 11px; text-transform: uppercase; letter-spacing: 1px; }
  .section { margin-top: 28px; font-weight: bold; font-size: 12px; text-transform: uppercase; letter-spacing: 1px; color: #52606d; }
</style>
</head>
<body>
  <div class="header">
    <div>{{if .Branding.LogoURL}}<img src="{{.Branding.LogoURL}}" alt="logo">{{end}}</div>
    <div class="company">
      <div class="name">{{.Branding.CompanyName}}</div>
      {{if .Branding.AddressLine}}<div>{{.Branding.AddressLine}}</div>{{end}}
      {{if .Branding.Email}}<div>{{.Branding.Email}}</div>{{end}}
      {{if .Branding.Phone}}<div>{{.Branding.Phone}}</div>{{end}}
    </div>
  </div>

  <h1>{{.Title}}</h1>
  <div class="meta">
    <div><strong>{{.Number}}</strong></div>
    <div>Issued {{.IssueDate}}</div>
    {{if .DueDate}}<div>Due {{.DueDate}}</div>{{end}}
    <div>Billed to: {{.ClientName}}{{if .ClientEmail}} ({{.ClientEmail}}){{end}}</div>
    {{if .Status}}<div class="status">{{.Status}}</div>{{end}}
  </div>

  {{if .Description}}<p>{{.Description}}</p>{{end}}

  {{if .Lines}}
  <table>
    <tr><th>Description</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
    {{range .Lines}}
    <tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Amount}}</td></tr>
    {{end}}
  </table>
  {{end}}

  <table class="totals">
    <tr><td>Total</td><td class="num">{{.Total}}</td></tr>
    {{if .Paid}}<tr><td>Paid</td><td class="num">{{.Paid}}</td></tr>{{end}}
    {{if .Balance}}<tr class="grand"><td>Balance Due</td><td class="num">{{.Balance}}</td></tr>{{end}}
  </table>

  {{if .Payments}}
  <div class="section">Payment History</div>
  <table>
    <tr><th>Receipt</th><th>Date</th><th>Method</th><th class="num">Amount</th></tr>
    {{range .Payments}}
    <tr><td>{{.Number}}</td><td>{{.Date}}</td><td>{{.Method}}</td><td class="num">{{.Amount}}</td></tr>
    {{end}}
  </table>
  {{end}}
</body>
</html>`
