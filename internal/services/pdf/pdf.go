// Package pdf renders HTML into PDF bytes through a headless Chrome page
// render pass. Output is A4 with fixed margins and background graphics
// enabled; the input HTML is trusted and already fully formatted.
package pdf

import (
	"context"
	"fmt"
	"net/url"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 page geometry in inches.
const (
	pageWidth  = 8.27
	pageHeight = 11.69
	margin     = 0.4
)

// Renderer turns HTML into a PDF byte stream.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer drives a headless Chrome instance per render. Each call
// spins up a fresh browser context; renders are short-lived and the
// process is shared by the OS-level Chrome instance pool.
type ChromeRenderer struct {
	execOpts []chromedp.ExecAllocatorOption
}

func NewChromeRenderer() *ChromeRenderer {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	return &ChromeRenderer{execOpts: opts}
}

// Render navigates to a data URL carrying the HTML and prints the page.
func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.execOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(html)

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(pageWidth).
				WithPaperHeight(pageHeight).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	return buf, nil
}
