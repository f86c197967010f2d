package repository

import (
	"context"
	"database/sql"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

const userColumns = `id, name, email, password, role, national_id, dob, contact,
	profile_pic, department_id, service_id, created_at`

type UserRepository struct {
	*Store
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{Store: s}
}

func scanUser(row rowScanner, extra ...any) (*domain.User, error) {
	var (
		u          domain.User
		dob        sql.NullTime
		department sql.NullInt64
		service    sql.NullInt64
	)
	dest := []any{
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.NationalID, &dob,
		&u.Contact, &u.ProfilePicture, &department, &service, &u.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	u.DateOfBirth = nullableTime(dob)
	u.DepartmentID = nullableInt(department)
	u.ServiceID = nullableInt(service)
	return &u, nil
}

func (r *UserRepository) findOne(ctx context.Context, what, query string, arg any) (*domain.User, error) {
	var user *domain.User
	err := r.run(ctx, what, func(ctx context.Context) error {
		var err error
		user, err = scanUser(r.db.QueryRowContext(ctx, query, arg))
		return err
	})
	return user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "user", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindOfficerProfile(ctx context.Context, id int64) (*domain.OfficerProfile, error) {
	var profile domain.OfficerProfile
	err := r.run(ctx, "officer", func(ctx context.Context) error {
		var deptName, svcName sql.NullString
		u, err := scanUser(r.db.QueryRowContext(ctx, `
			SELECT u.id, u.name, u.email, u.password, u.role, u.national_id, u.dob, u.contact,
			       u.profile_pic, u.department_id, u.service_id, u.created_at, d.name, s.name
			FROM users u
			LEFT JOIN departments d ON d.id = u.department_id
			LEFT JOIN services s ON s.id = u.service_id
			WHERE u.id = $1`, id), &deptName, &svcName)
		if err != nil {
			return err
		}
		profile = domain.OfficerProfile{User: *u, DepartmentName: deptName.String, ServiceName: svcName.String}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.run(ctx, "users", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, *u)
		}
		return rows.Err()
	})
	return users, err
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) (int64, error) {
	var id int64
	err := r.run(ctx, "user", func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, `
			INSERT INTO users (name, email, password, role, national_id, dob, contact, department_id, service_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			u.Name, u.Email, u.Password, u.Role, u.NationalID, u.DateOfBirth, u.Contact,
			u.DepartmentID, u.ServiceID,
		).Scan(&id)
	})
	return id, err
}

// Update rewrites the editable fields. The password hash is replaced only
// when u.Password is set.
func (r *UserRepository) Update(ctx context.Context, u domain.User) error {
	return r.run(ctx, "user", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE users
			SET name = $1, email = $2, role = $3, national_id = $4, dob = $5, contact = $6,
			    department_id = $7, service_id = $8,
			    password = COALESCE(NULLIF($9, ''), password)
			WHERE id = $10`,
			u.Name, u.Email, u.Role, u.NationalID, u.DateOfBirth, u.Contact,
			u.DepartmentID, u.ServiceID, u.Password, u.ID)
		return expectRow(res, err)
	})
}

func (r *UserRepository) UpdateProfilePicture(ctx context.Context, id int64, path string) error {
	return r.run(ctx, "user", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `UPDATE users SET profile_pic = $1 WHERE id = $2`, path, id)
		return expectRow(res, err)
	})
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.run(ctx, "user", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		return expectRow(res, err)
	})
}

// expectRow turns a statement that touched nothing into sql.ErrNoRows.
func expectRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
