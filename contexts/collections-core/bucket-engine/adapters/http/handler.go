package httpadapter

import (
	"context"
	"log/slog"

	"kolekta/contexts/collections-core/bucket-engine/domain"
	httptransport "kolekta/contexts/collections-core/bucket-engine/transport/http"
)

type Handler struct {
	Logger *slog.Logger
}

func (h Handler) ClassifyHandler(_ context.Context, req httptransport.ClassifyRequest) httptransport.ClassifyResponse {
	result := domain.Classify(req.DPD, domain.Flags{
		IsPTPActive:        req.IsPTPActive,
		IsVendorAssigned:   req.IsVendorAssigned,
		IsNonContact:       req.IsNonContact,
		IsWhatsAppEligible: req.IsWhatsAppEligible,
		IsIgnored:          req.IsIgnored,
	})
	if result.Code == domain.BucketUnclassified {
		h.logger().Warn("installment fell through to unclassified bucket",
			"event", "bucket_unclassified",
			"module", "collections-core/bucket-engine",
			"layer", "adapter",
			"dpd", req.DPD,
		)
	}
	return httptransport.ClassifyResponse{
		DPD:          req.DPD,
		BucketCode:   string(result.Code),
		BucketLabel:  result.Label,
		BucketNumber: result.Number,
	}
}

func (h Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
