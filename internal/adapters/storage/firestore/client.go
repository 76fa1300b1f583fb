// Package firestore guarda los reportes en colecciones de Cloud Firestore
// (lostPets, sightings, matches), con los mismos nombres de campo que usa
// el cliente web.
package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"regresa/internal/domain/report"
)

const (
	colLostPets  = "lostPets"
	colSightings = "sightings"
	colMatches   = "matches"
)

// Open crea el cliente. credentialsFile vacío = credenciales por defecto
// (o FIRESTORE_EMULATOR_HOST si está seteado).
func Open(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return c, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

func count(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("firestore count: unexpected result %T", res["all"])
	}
	return int(v.GetIntegerValue()), nil
}

// deleteWhere borra todos los docs del query con un BulkWriter.
func deleteWhere(ctx context.Context, client *firestore.Client, q firestore.Query) (int, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, d := range docs {
		j, err := bw.Delete(d.Ref)
		if err != nil {
			bw.End()
			return 0, err
		}
		jobs = append(jobs, j)
	}
	bw.End()

	n := 0
	for _, j := range jobs {
		if _, err := j.Results(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type contactDoc struct {
	Phone            string `firestore:"phone"`
	Email            string `firestore:"email"`
	PreferredContact string `firestore:"preferredContact"`
}

type coordsDoc struct {
	Lat float64 `firestore:"lat"`
	Lng float64 `firestore:"lng"`
}

func toContactDoc(c report.Contact) contactDoc {
	return contactDoc{Phone: c.Phone, Email: c.Email, PreferredContact: string(c.Preferred)}
}

func (d contactDoc) toDomain(name string) report.Contact {
	return report.Contact{
		Name:      name,
		Phone:     d.Phone,
		Email:     d.Email,
		Preferred: report.ContactChannel(d.PreferredContact),
	}
}

func toCoordsDoc(c *report.Coordinates) *coordsDoc {
	if c == nil {
		return nil
	}
	return &coordsDoc{Lat: c.Lat, Lng: c.Lng}
}

func (d *coordsDoc) toDomain() *report.Coordinates {
	if d == nil {
		return nil
	}
	return &report.Coordinates{Lat: d.Lat, Lng: d.Lng}
}
