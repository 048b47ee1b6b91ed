package receipts

import (
	"context"
	"fmt"

	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
)

const (
	ScenarioReceipt1 = "receipt1"
	ScenarioReceipt2 = "receipt2"
	ScenarioReceipt3 = "receipt3"
	ScenarioBad1     = "bad1"
	ScenarioBad2     = "bad2"
)

// Scenarios returns a fresh copy of every canned payload, keyed by name.
func Scenarios() map[string]Receipt {
	return map[string]Receipt{
		ScenarioReceipt1: receipt1(),
		ScenarioReceipt2: receipt2(),
		ScenarioReceipt3: receipt3(),
		ScenarioBad1:     bad1(),
		ScenarioBad2:     bad2(),
	}
}

func receipt1() Receipt {
	return Receipt{
		Retailer:     "Walgreens",
		PurchaseDate: "2022-01-02",
		PurchaseTime: "08:13",
		Items: []Item{
			{ShortDescription: "Pepsi - 12-oz", Price: "1.25"},
			{ShortDescription: "Dasani", Price: "1.40"},
		},
		Total: "2.65",
	}
}

func receipt2() Receipt {
	return Receipt{
		Retailer:     "Target",
		PurchaseDate: "2022-01-01",
		PurchaseTime: "13:01",
		Items: []Item{
			{ShortDescription: "Mountain Dew 12PK", Price: "6.49"},
			{ShortDescription: "Emils Cheese Pizza", Price: "12.25"},
			{ShortDescription: "Knorr Creamy Chicken", Price: "1.26"},
			{ShortDescription: "Doritos Nacho Cheese", Price: "3.35"},
			{ShortDescription: "   Klarbrunn 12-PK 12 FL OZ  ", Price: "12.00"},
		},
		Total: "35.35",
	}
}

func receipt3() Receipt {
	return Receipt{
		Retailer:     "M&M Corner Market",
		PurchaseDate: "2022-03-20",
		PurchaseTime: "14:33",
		Items: []Item{
			{ShortDescription: "Gatorade", Price: "2.25"},
			{ShortDescription: "Gatorade", Price: "2.25"},
			{ShortDescription: "Gatorade", Price: "2.25"},
			{ShortDescription: "Gatorade", Price: "2.25"},
		},
		Total: "9.00",
	}
}

// Month 13 and hour 24.
func bad1() Receipt {
	return Receipt{
		Retailer:     "M&M Corner Market",
		PurchaseDate: "2022-13-20",
		PurchaseTime: "24:33",
		Items: []Item{
			{ShortDescription: "Stuff", Price: "2.25"},
			{ShortDescription: "Stuff", Price: "2.25"},
		},
		Total: "4.50",
	}
}

// Items add up to 4.50, total says 4.60.
func bad2() Receipt {
	return Receipt{
		Retailer:     "M&M Corner Market",
		PurchaseDate: "2022-03-20",
		PurchaseTime: "14:33",
		Items: []Item{
			{ShortDescription: "Stuff", Price: "2.25"},
			{ShortDescription: "Stuff", Price: "2.25"},
		},
		Total: "4.60",
	}
}

func (c *Client) SubmitReceipt1(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.SubmitAndRemember(ctx, receipt1(), opts)
}

func (c *Client) SubmitReceipt2(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.SubmitAndRemember(ctx, receipt2(), opts)
}

func (c *Client) SubmitReceipt3(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.SubmitAndRemember(ctx, receipt3(), opts)
}

func (c *Client) SubmitBad1(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.SubmitAndRemember(ctx, bad1(), opts)
}

func (c *Client) SubmitBad2(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.SubmitAndRemember(ctx, bad2(), opts)
}

// FetchMalformed1 sends a GET to the POST-only process endpoint.
func (c *Client) FetchMalformed1(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.malformed(ctx, processPath, opts)
}

// FetchMalformed2 asks for a path the API does not serve.
func (c *Client) FetchMalformed2(ctx context.Context, opts CallOptions) (*webclient.Response, error) {
	return c.malformed(ctx, "/receipts/bad", opts)
}

func (c *Client) malformed(ctx context.Context, path string, opts CallOptions) (*webclient.Response, error) {
	resp, err := c.get(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return resp, nil
}
