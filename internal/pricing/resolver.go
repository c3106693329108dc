// Package pricing resolves on-demand instance rates from the AWS Pricing
// API and annotates rightsize recommendations with their current monthly
// cost. Enrichment is optional context for the report; it never changes the
// estimated savings and every lookup fails soft.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/shopspring/decimal"

	"aws-cost-optimizer/pkg/api"
)

// hoursPerMonth is the standard 730-hour billing month.
var hoursPerMonth = decimal.NewFromInt(730)

// PricingAPI is the slice of the Pricing client the resolver needs.
type PricingAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Resolver looks up on-demand Linux rates for instance types.
type Resolver struct {
	client PricingAPI
	region string
	logger *slog.Logger
	cache  map[string]decimal.Decimal
}

func New(client PricingAPI, region string, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		region: region,
		logger: logger,
		cache:  map[string]decimal.Decimal{},
	}
}

// Enrich annotates every rightsize recommendation with the instance type's
// current monthly on-demand cost. A failed or empty lookup leaves the
// recommendation untouched.
func (r *Resolver) Enrich(ctx context.Context, snapshot *api.AnalysisSnapshot) {
	for i := range snapshot.Recommendations {
		rec := &snapshot.Recommendations[i]
		if rec.Type != api.RecommendationRightsize || rec.CurrentType == "" {
			continue
		}

		hourly, err := r.hourlyRate(ctx, rec.CurrentType)
		if err != nil {
			r.logger.Warn("price lookup failed, skipping enrichment",
				"instance_type", rec.CurrentType, "resource_id", rec.ResourceID, "error", err)
			continue
		}

		monthly, _ := hourly.Mul(hoursPerMonth).Round(2).Float64()
		rec.CurrentMonthlyCost = monthly
	}
}

func (r *Resolver) hourlyRate(ctx context.Context, instanceType string) (decimal.Decimal, error) {
	if rate, ok := r.cache[instanceType]; ok {
		return rate, nil
	}

	out, err := r.client.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		MaxResults:  aws.Int32(1),
		Filters: []pricingtypes.Filter{
			termMatch("instanceType", instanceType),
			termMatch("regionCode", r.region),
			termMatch("operatingSystem", "Linux"),
			termMatch("tenancy", "Shared"),
			termMatch("preInstalledSw", "NA"),
			termMatch("capacitystatus", "Used"),
		},
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("get products for %s: %w", instanceType, err)
	}
	if len(out.PriceList) == 0 {
		return decimal.Zero, fmt.Errorf("no price found for %s in %s", instanceType, r.region)
	}

	rate, err := parseOnDemandUSD(out.PriceList[0])
	if err != nil {
		return decimal.Zero, err
	}
	r.cache[instanceType] = rate
	return rate, nil
}

func termMatch(field, value string) pricingtypes.Filter {
	return pricingtypes.Filter{
		Type:  pricingtypes.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

// parseOnDemandUSD walks a Pricing API product document down to the first
// on-demand USD price dimension.
func parseOnDemandUSD(doc string) (decimal.Decimal, error) {
	var product struct {
		Terms struct {
			OnDemand map[string]struct {
				PriceDimensions map[string]struct {
					PricePerUnit map[string]string `json:"pricePerUnit"`
				} `json:"priceDimensions"`
			} `json:"OnDemand"`
		} `json:"terms"`
	}
	if err := json.Unmarshal([]byte(doc), &product); err != nil {
		return decimal.Zero, fmt.Errorf("parse price document: %w", err)
	}

	for _, term := range product.Terms.OnDemand {
		for _, dimension := range term.PriceDimensions {
			usd, ok := dimension.PricePerUnit["USD"]
			if !ok {
				continue
			}
			rate, err := decimal.NewFromString(usd)
			if err != nil {
				return decimal.Zero, fmt.Errorf("parse USD rate %q: %w", usd, err)
			}
			return rate, nil
		}
	}
	return decimal.Zero, fmt.Errorf("no on-demand USD dimension in price document")
}
