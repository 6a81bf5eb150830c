package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GoSim-25-26J-441/build-trigger/internal/projects/domain"
)

// ownerField is the document field holding the owner's Firebase UID.
const ownerField = "userId"

// FirestoreRepository reads projects from a Firestore collection keyed by project ID.
type FirestoreRepository struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreRepository(client *firestore.Client, collection string) *FirestoreRepository {
	return &FirestoreRepository{client: client, collection: collection}
}

func (r *FirestoreRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	// no document can live under an ID Firestore would reject
	if !validDocumentID(id) {
		return nil, domain.ErrNotFound
	}

	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	if !snap.Exists() {
		return nil, domain.ErrNotFound
	}

	return projectFromDocument(id, snap.Data(), snap.CreateTime, snap.UpdateTime), nil
}

func projectFromDocument(id string, data map[string]interface{}, createdAt, updatedAt time.Time) *domain.Project {
	p := &domain.Project{ID: id, CreatedAt: createdAt, UpdatedAt: updatedAt}
	if owner, ok := data[ownerField].(string); ok {
		p.OwnerUID = owner
	}
	if name, ok := data["name"].(string); ok {
		p.Name = name
	}
	return p
}

func validDocumentID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 1500 {
		return false
	}
	if strings.Contains(id, "/") {
		return false
	}
	if strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__") {
		return false
	}
	return true
}
