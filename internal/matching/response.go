package matching

import "regresa/internal/domain/lostpets"

type ResultResponse struct {
	LostPet    lostpets.Response `json:"lostPet"`
	Confidence float64           `json:"confidence"`
	Reason     string            `json:"reason"`
}

func Responses(results []Result) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, ResultResponse{
			LostPet:    lostpets.NewResponse(r.LostPet),
			Confidence: r.Confidence,
			Reason:     r.Reason,
		})
	}
	return out
}
