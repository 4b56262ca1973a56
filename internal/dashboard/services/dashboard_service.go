package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/c14220110/hospital-backend/internal/dashboard/models"
	habitacion "github.com/c14220110/hospital-backend/internal/habitaciones/models"
	"github.com/c14220110/hospital-backend/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// Series the frontend still draws from fixed data.
var (
	mockDoctorsChart     = []int{30, 40, 35, 50, 49, 60, 70}
	mockAppointmentChart = []int{65, 59, 80, 81, 56, 55, 40}
	mockVisitorChart     = []int{45, 70, 60, 80, 50, 75, 65}
	clinicColors         = []string{"#3399ff", "#85c2ff", "#ff99cc"}
)

const (
	upcomingLimit   = 5
	availableSample = 2
	histogramMonths = 6
)

// StatusColor maps an appointment status onto the calendar badge color.
func StatusColor(estado string) string {
	switch estado {
	case "pendiente":
		return "warning"
	case "confirmada":
		return "info"
	case "completada":
		return "success"
	case "cancelada":
		return "danger"
	}
	return "secondary"
}

type DashboardService struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{DB: db, Now: time.Now}
}

// Stats runs every aggregate concurrently. The first failing query cancels the rest and the
// whole call fails; there is no partial result.
func (s *DashboardService) Stats(ctx context.Context) (*models.Stats, error) {
	now := s.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		st                                    models.Stats
		totalDoctors, totalPatients, citasHoy int
		rooms                                 models.RoomAvailability
		appointments                          []models.Appointment
		clinics                               models.TopClinics
		overview                              models.PatientOverview
		available                             []models.DoctorCard
		calendar                              map[string][]models.CalendarActivity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.count(gctx, &totalDoctors, "SELECT COUNT(*) FROM doctores") })
	g.Go(func() error { return s.count(gctx, &totalPatients, "SELECT COUNT(*) FROM pacientes") })
	g.Go(func() error {
		return s.count(gctx, &citasHoy, "SELECT COUNT(*) FROM citas WHERE DATE(fecha) = ?", today.Format("2006-01-02"))
	})
	g.Go(func() (err error) { rooms, err = s.roomAvailability(gctx); return })
	g.Go(func() (err error) { appointments, err = s.upcoming(gctx, today); return })
	g.Go(func() (err error) { clinics, err = s.topClinics(gctx); return })
	g.Go(func() (err error) { overview, err = s.patientOverview(gctx, today); return })
	g.Go(func() (err error) { available, err = s.availableDoctors(gctx); return })
	g.Go(func() (err error) { calendar, err = s.calendar(gctx, today); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.TotalDoctors = models.ValueChart{Value: totalDoctors, ChartData: mockDoctorsChart}
	st.BookAppointment = models.DailyChart{Value: citasHoy, Daily: citasHoy, ChartData: mockAppointmentChart}
	st.RoomAvailability = rooms
	st.OverallVisitor = models.DailyChart{Value: totalPatients, Daily: totalPatients / 30, ChartData: mockVisitorChart}
	st.PatientOverview = overview
	st.TopClinics = clinics
	st.DoctorsSchedule = models.DoctorsSchedule{
		Available:   models.ScheduleGroup{Count: totalDoctors, List: available},
		Unavailable: models.ScheduleGroup{List: []models.DoctorCard{}},
		Leave:       models.ScheduleGroup{List: []models.DoctorCard{}},
	}
	st.Appointments = appointments
	st.CalendarActivities = calendar
	return &st, nil
}

func (s *DashboardService) count(ctx context.Context, dst *int, query string, args ...any) error {
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(dst); err != nil {
		return fmt.Errorf("dashboard %q: %w", query, err)
	}
	return nil
}

func (s *DashboardService) roomAvailability(ctx context.Context) (models.RoomAvailability, error) {
	var r models.RoomAvailability
	rows, err := s.DB.QueryContext(ctx, "SELECT tipo, estado, COUNT(*) FROM habitaciones_disponibles GROUP BY tipo, estado")
	if err != nil {
		return r, fmt.Errorf("dashboard rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tipo   habitacion.RoomType
			estado habitacion.RoomStatus
			n      int
		)
		if err := rows.Scan(&tipo, &estado, &n); err != nil {
			return r, fmt.Errorf("dashboard rooms: %w", err)
		}
		disponible := estado == habitacion.EstadoDisponible
		r.Value += n
		if disponible {
			r.Available += n
		} else {
			r.Occupied += n
		}
		switch tipo {
		case habitacion.TipoGeneral:
			r.GeneralTotal += n
			if disponible {
				r.GeneralAvailable += n
			}
		case habitacion.TipoPrivada:
			r.PrivateTotal += n
			if disponible {
				r.PrivateAvailable += n
			}
		}
	}
	return r, rows.Err()
}

func (s *DashboardService) upcoming(ctx context.Context, today time.Time) ([]models.Appointment, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT c.id, p.nombre, p.apellido, p.foto, d.especialidad, c.fecha
		FROM citas c
		JOIN pacientes p ON c.paciente_id = p.id
		JOIN doctores d ON c.doctor_id = d.id
		WHERE c.fecha >= ?
		ORDER BY c.fecha ASC
		LIMIT ?`, today, upcomingLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard upcoming: %w", err)
	}
	defer rows.Close()

	out := []models.Appointment{}
	for rows.Next() {
		var (
			a                models.Appointment
			nombre, apellido string
			foto             []byte
			fecha            time.Time
		)
		if err := rows.Scan(&a.ID, &nombre, &apellido, &foto, &a.Specialty, &fecha); err != nil {
			return nil, fmt.Errorf("dashboard upcoming: %w", err)
		}
		a.Name = nombre + " " + apellido
		a.AvatarBase64 = utils.PhotoBase64(foto)
		a.Time = fecha.Format("15:04")
		a.Date = fecha.Format("02/01/2006")
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *DashboardService) topClinics(ctx context.Context) (models.TopClinics, error) {
	tc := models.TopClinics{Labels: []string{}, Data: []int{}, Colors: clinicColors}
	rows, err := s.DB.QueryContext(ctx, `SELECT especialidad, COUNT(*) AS total
		FROM doctores
		WHERE especialidad IS NOT NULL AND especialidad != ''
		GROUP BY especialidad
		ORDER BY total DESC
		LIMIT 3`)
	if err != nil {
		return tc, fmt.Errorf("dashboard specialties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return tc, fmt.Errorf("dashboard specialties: %w", err)
		}
		tc.Labels = append(tc.Labels, label)
		tc.Data = append(tc.Data, n)
		tc.Total += n
	}
	return tc, rows.Err()
}

// patientOverview counts registrations per month over the trailing six months, the current
// one included. Months without registrations appear with zero.
func (s *DashboardService) patientOverview(ctx context.Context, today time.Time) (models.PatientOverview, error) {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -(histogramMonths - 1), 0)
	labels := make([]string, histogramMonths)
	index := make(map[string]int, histogramMonths)
	for i := range labels {
		labels[i] = first.AddDate(0, i, 0).Format("2006-01")
		index[labels[i]] = i
	}
	data := make([]int, histogramMonths)

	rows, err := s.DB.QueryContext(ctx, `SELECT DATE_FORMAT(creado_en, '%Y-%m') AS mes, COUNT(*)
		FROM pacientes
		WHERE creado_en >= ?
		GROUP BY mes
		ORDER BY mes ASC`, first)
	if err != nil {
		return models.PatientOverview{}, fmt.Errorf("dashboard histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mes string
			n   int
		)
		if err := rows.Scan(&mes, &n); err != nil {
			return models.PatientOverview{}, fmt.Errorf("dashboard histogram: %w", err)
		}
		if i, ok := index[mes]; ok {
			data[i] = n
		}
	}
	if err := rows.Err(); err != nil {
		return models.PatientOverview{}, fmt.Errorf("dashboard histogram: %w", err)
	}
	return models.PatientOverview{
		Labels:   labels,
		Datasets: []models.Dataset{{Label: "Pacientes Registrados (Mes)", Data: data, BackgroundColor: "#3399ff"}},
	}, nil
}

// availableDoctors is a random sample; there is no availability data behind it yet.
func (s *DashboardService) availableDoctors(ctx context.Context) ([]models.DoctorCard, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT nombre, apellidos, especialidad, foto FROM doctores ORDER BY RAND() LIMIT ?", availableSample)
	if err != nil {
		return nil, fmt.Errorf("dashboard doctors: %w", err)
	}
	defer rows.Close()

	out := []models.DoctorCard{}
	for rows.Next() {
		var (
			nombre, apellidos string
			d                 models.DoctorCard
			foto              []byte
		)
		if err := rows.Scan(&nombre, &apellidos, &d.Specialty, &foto); err != nil {
			return nil, fmt.Errorf("dashboard doctors: %w", err)
		}
		d.Name = nombre + " " + apellidos
		d.AvatarBase64 = utils.PhotoBase64(foto)
		out = append(out, d)
	}
	return out, rows.Err()
}

// addMonths moves t by n calendar months, clamping to the last day of the target month
// (2024-03-31 minus one month is 2024-02-29, not 2024-03-02).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// calendarWindow is [today-1 month, today+2 months], the upper day included.
func calendarWindow(today time.Time) (from, to time.Time) {
	return addMonths(today, -1), addMonths(today, 2).AddDate(0, 0, 1)
}

// calendar groups appointments from one month back to two months ahead by day.
func (s *DashboardService) calendar(ctx context.Context, today time.Time) (map[string][]models.CalendarActivity, error) {
	from, to := calendarWindow(today)
	rows, err := s.DB.QueryContext(ctx, `SELECT c.fecha, c.estado, c.motivo, p.nombre, p.apellido
		FROM citas c
		JOIN pacientes p ON c.paciente_id = p.id
		WHERE c.fecha >= ? AND c.fecha < ?
		ORDER BY c.fecha ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard calendar: %w", err)
	}
	defer rows.Close()

	out := map[string][]models.CalendarActivity{}
	for rows.Next() {
		var (
			fecha                            time.Time
			estado, motivo, nombre, apellido string
		)
		if err := rows.Scan(&fecha, &estado, &motivo, &nombre, &apellido); err != nil {
			return nil, fmt.Errorf("dashboard calendar: %w", err)
		}
		day := fecha.Format("2006-01-02")
		out[day] = append(out[day], models.CalendarActivity{
			Time:  fecha.Format("15:04"),
			Title: fmt.Sprintf("%s %s - %s", nombre, apellido, motivo),
			Color: StatusColor(estado),
		})
	}
	return out, rows.Err()
}
