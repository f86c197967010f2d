package repository

import (
	"context"
	"database/sql"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type CatalogRepository struct {
	*Store
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(s *Store) *CatalogRepository {
	return &CatalogRepository{Store: s}
}

const serviceSelect = `
	SELECT s.id, s.name, s.description, s.department_id, d.name, s.fee
	FROM services s
	JOIN departments d ON d.id = s.department_id`

func scanService(row rowScanner) (*domain.Service, error) {
	var (
		svc domain.Service
		fee sql.NullFloat64
	)
	if err := row.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.DepartmentID, &svc.DepartmentName, &fee); err != nil {
		return nil, err
	}
	svc.Fee = nullableFloat(fee)
	return &svc, nil
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	err := r.run(ctx, "services", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, serviceSelect+` ORDER BY s.name, s.id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			svc, err := scanService(rows)
			if err != nil {
				return err
			}
			services = append(services, *svc)
		}
		return rows.Err()
	})
	return services, err
}

func (r *CatalogRepository) ListServicesByDepartment(ctx context.Context, departmentID int64) ([]domain.ServiceOption, error) {
	options := []domain.ServiceOption{}
	err := r.run(ctx, "services", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, name FROM services WHERE department_id = $1 ORDER BY name, id`, departmentID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var opt domain.ServiceOption
			if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
				return err
			}
			options = append(options, opt)
		}
		return rows.Err()
	})
	return options, err
}

func (r *CatalogRepository) FindService(ctx context.Context, id int64) (*domain.Service, error) {
	var svc *domain.Service
	err := r.run(ctx, "service", func(ctx context.Context) error {
		var err error
		svc, err = scanService(r.db.QueryRowContext(ctx, serviceSelect+` WHERE s.id = $1`, id))
		return err
	})
	return svc, err
}

func (r *CatalogRepository) CreateService(ctx context.Context, svc domain.Service) (int64, error) {
	var id int64
	err := r.run(ctx, "service", func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, `
			INSERT INTO services (name, description, department_id, fee)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			svc.Name, svc.Description, svc.DepartmentID, svc.Fee,
		).Scan(&id)
	})
	return id, err
}

func (r *CatalogRepository) UpdateService(ctx context.Context, svc domain.Service) error {
	return r.run(ctx, "service", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE services SET name = $1, description = $2, department_id = $3, fee = $4
			WHERE id = $5`,
			svc.Name, svc.Description, svc.DepartmentID, svc.Fee, svc.ID)
		return expectRow(res, err)
	})
}

func (r *CatalogRepository) DeleteService(ctx context.Context, id int64) error {
	return r.run(ctx, "service", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
		return expectRow(res, err)
	})
}

func (r *CatalogRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var departments []domain.Department
	err := r.run(ctx, "departments", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM departments ORDER BY name, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var d domain.Department
			if err := rows.Scan(&d.ID, &d.Name, &d.Description); err != nil {
				return err
			}
			departments = append(departments, d)
		}
		return rows.Err()
	})
	return departments, err
}

func (r *CatalogRepository) FindDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	var d domain.Department
	err := r.run(ctx, "department", func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx,
			`SELECT id, name, description FROM departments WHERE id = $1`, id,
		).Scan(&d.ID, &d.Name, &d.Description)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) CreateDepartment(ctx context.Context, d domain.Department) (int64, error) {
	var id int64
	err := r.run(ctx, "department", func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx,
			`INSERT INTO departments (name, description) VALUES ($1, $2) RETURNING id`,
			d.Name, d.Description,
		).Scan(&id)
	})
	return id, err
}

func (r *CatalogRepository) UpdateDepartment(ctx context.Context, d domain.Department) error {
	return r.run(ctx, "department", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE departments SET name = $1, description = $2 WHERE id = $3`,
			d.Name, d.Description, d.ID)
		return expectRow(res, err)
	})
}

func (r *CatalogRepository) DeleteDepartment(ctx context.Context, id int64) error {
	return r.run(ctx, "department", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
		return expectRow(res, err)
	})
}
