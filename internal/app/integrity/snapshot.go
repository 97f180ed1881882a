package integrity

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
)

// DepartmentSnapshot copies the display fields of a department
func DepartmentSnapshot(d *models.Department) models.DepartmentEmbedded {
	return models.DepartmentEmbedded{
		Department:     d.ID,
		DepartmentName: d.DepartmentName,
		Abbreviation:   d.Abbreviation,
	}
}

// CourseSnapshot copies the display fields of a course
func CourseSnapshot(c *models.Course) models.CourseEmbedded {
	return models.CourseEmbedded{
		Course:       c.ID,
		CourseNumber: c.CourseNumber,
		CourseName:   c.CourseName,
	}
}

// MajorSnapshot copies the display fields of a major
func MajorSnapshot(m *models.Major) models.MajorEmbedded {
	return models.MajorEmbedded{
		Major:     m.ID,
		MajorName: m.MajorName,
	}
}

// Snapshots keeps the embedded snapshot lists of parent documents.
// Snapshots are written once and never refreshed from their canonical document.
type Snapshots struct {
	store docstore.Store
}

// NewSnapshots creates a Snapshots writer over store
func NewSnapshots(store docstore.Store) *Snapshots {
	return &Snapshots{store: store}
}

// Attach appends snapshot to the list at field of the parent document
func (s *Snapshots) Attach(ctx context.Context, collection string, parent primitive.ObjectID, field string, snapshot interface{}) error {
	if err := s.store.Push(ctx, collection, parent, field, snapshot); err != nil {
		return fmt.Errorf("attach snapshot to %s.%s: %w", collection, field, err)
	}
	return nil
}

// Detach removes from the list at field of the parent every snapshot whose
// back-reference ref points at child
func (s *Snapshots) Detach(ctx context.Context, collection string, parent primitive.ObjectID, field, ref string, child primitive.ObjectID) error {
	if err := s.store.Pull(ctx, collection, parent, field, docstore.Filter{ref: child}); err != nil {
		return fmt.Errorf("detach snapshot from %s.%s: %w", collection, field, err)
	}
	return nil
}
