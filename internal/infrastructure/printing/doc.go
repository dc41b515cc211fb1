// Package printing renders receipts as HTML and converts them to PDF with
// headless Chrome.
//
// TemplateEngine turns a sales.ReceiptGroup and the shop settings into a
// standalone HTML document. ChromedpRenderer prints that document on the
// configured paper size; thermal rolls are printed as one tall page.
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderReceipt(receipt, settings)
//	...
//	pdf, err := renderer.RenderReceiptPDF(ctx, html, settings)
package printing
