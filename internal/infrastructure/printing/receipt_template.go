package printing

// receiptTemplate is the built-in receipt layout. Thermal rolls get a
// narrow, four-column table; page sizes show unit prices too.
const receiptTemplate = `<!DOCTYPE html>
<html lang="{{.Settings.Language}}">
<head>
<meta charset="UTF-8">
<title>Receipt {{.ReceiptNumber}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #111827; margin: 0; }
  .receipt { {{if .Thermal}}width: {{.PaperWidthMM}}mm; font-size: 8px;{{else}}max-width: 800px; margin: 0 auto; font-size: 13px;{{end}} }
  .header { text-align: center; border-bottom: 2px solid #3b82f6; padding-bottom: {{if .Thermal}}4px{{else}}16px{{end}}; }
  .company-name { font-weight: bold; color: #1e40af; font-size: {{if .Thermal}}11px{{else}}22px{{end}}; }
  .title { font-weight: bold; margin-top: 8px; font-size: {{if .Thermal}}10px{{else}}20px{{end}}; }
  table { width: 100%; border-collapse: collapse; margin: {{if .Thermal}}4px{{else}}16px{{end}} 0; }
  th, td { border: 1px solid #ddd; padding: {{if .Thermal}}1px{{else}}8px{{end}}; text-align: left; }
  th { background: #3b82f6; color: #fff; }
  .right { text-align: right; }
  .center { text-align: center; }
  .totals div { display: flex; justify-content: space-between; }
  .grand { font-weight: bold; color: #1e40af; border-top: 2px solid #3b82f6; }
  .footer { text-align: center; margin-top: {{if .Thermal}}4px{{else}}32px{{end}}; }
</style>
</head>
<body>
<div class="receipt">
  <div class="header">
    {{- if .Settings.ShowCompanyInfo}}
    <div class="company-name">{{.Settings.CompanyName}}</div>
    {{- with .Settings.CompanyAddress}}<div>{{.}}</div>{{end}}
    {{- if not .Thermal}}
    <div>Telp: {{.Settings.CompanyPhone}} | Email: {{.Settings.CompanyEmail}}</div>
    {{- with .Settings.CompanyWebsite}}<div>Website: {{.}}</div>{{end}}
    {{- with .Settings.CompanyBankAccount}}<div>Rekening: {{.}}</div>{{end}}
    {{- end}}
    {{- end}}
    <div class="title">INVOICE</div>
    <div>No. Receipt: #{{.ReceiptNumber}}</div>
  </div>

  {{- if .Settings.ShowCustomerInfo}}
  <div class="customer">
    <div><strong>Customer:</strong> {{title .Customer}}</div>
    {{- if not .Thermal}}
    <div><strong>Email:</strong> {{if .CustomerEmail}}{{.CustomerEmail}}{{else}}-{{end}}</div>
    <div><strong>Phone:</strong> {{if .CustomerPhone}}{{.CustomerPhone}}{{else}}-{{end}}</div>
    {{- end}}
    <div><strong>Date:</strong> {{date .Date}}</div>
    <div><strong>Payment:</strong> {{.PaymentMethod}}</div>
  </div>
  {{- end}}

  <table>
    <thead>
      <tr>
        <th class="center">No</th>
        <th>{{if .Thermal}}Item{{else}}Description{{end}}</th>
        <th class="center">Qty</th>
        {{- if not .Thermal}}
        <th class="right">Unit Price</th>
        {{- end}}
        <th class="right">Total</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Lines}}
      <tr>
        <td class="center">{{.No}}</td>
        <td><strong>{{.ProductName}}</strong></td>
        <td class="center">{{.Quantity}}</td>
        {{- if not $.Thermal}}
        <td class="right">{{money $.Currency .UnitPrice}}</td>
        {{- end}}
        <td class="right"><strong>{{money $.Currency .Total}}</strong></td>
      </tr>
      {{- end}}
    </tbody>
  </table>

  <div class="totals">
    <div><span>Subtotal:</span><span>{{money .Currency .Subtotal}}</span></div>
    {{- if .Settings.ShowTax}}
    <div><span>Tax ({{percent .TaxRate}}):</span><span>{{money .Currency .Tax}}</span></div>
    {{- end}}
    <div class="grand"><span>TOTAL:</span><span>{{money .Currency .GrandTotal}}</span></div>
  </div>

  <div class="footer">
    {{- if .Thermal}}
    <p><strong>Terima Kasih!</strong></p>
    {{- else}}
    <p><strong>Terima Kasih atas Kepercayaan Anda!</strong></p>
    <p>Untuk pertanyaan lebih lanjut mengenai layanan ini, silakan hubungi kami.</p>
    {{- end}}
  </div>
</div>
</body>
</html>
`
