package models

// Stats is the read model of the admin home screen. Field names follow what the chart
// components consume.
type Stats struct {
	TotalDoctors       ValueChart                    `json:"totalDoctors"`
	BookAppointment    DailyChart                    `json:"bookAppointment"`
	RoomAvailability   RoomAvailability              `json:"roomAvailability"`
	OverallVisitor     DailyChart                    `json:"overallVisitor"`
	PatientOverview    PatientOverview               `json:"patientOverview"`
	TopClinics         TopClinics                    `json:"topClinics"`
	DoctorsSchedule    DoctorsSchedule               `json:"doctorsSchedule"`
	Appointments       []Appointment                 `json:"appointments"`
	CalendarActivities map[string][]CalendarActivity `json:"calendarActivities"`
}

type ValueChart struct {
	Value     int   `json:"value"`
	ChartData []int `json:"chartData"`
}

type DailyChart struct {
	Value     int   `json:"value"`
	Daily     int   `json:"daily"`
	ChartData []int `json:"chartData"`
}

// RoomAvailability: Available + Occupied == Value.
type RoomAvailability struct {
	Value            int `json:"value"`
	Available        int `json:"available"`
	Occupied         int `json:"occupied"`
	GeneralTotal     int `json:"general_total"`
	GeneralAvailable int `json:"general_available"`
	PrivateTotal     int `json:"private_total"`
	PrivateAvailable int `json:"private_available"`
}

type Dataset struct {
	Label           string `json:"label"`
	Data            []int  `json:"data"`
	BackgroundColor string `json:"backgroundColor"`
}

type PatientOverview struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type TopClinics struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Total  int      `json:"total"`
	Colors []string `json:"colors"`
}

type DoctorCard struct {
	Name         string  `json:"name"`
	Specialty    string  `json:"specialty"`
	AvatarBase64 *string `json:"avatar_base64"`
}

type ScheduleGroup struct {
	Count int          `json:"count"`
	List  []DoctorCard `json:"list"`
}

type DoctorsSchedule struct {
	Available   ScheduleGroup `json:"available"`
	Unavailable ScheduleGroup `json:"unavailable"`
	Leave       ScheduleGroup `json:"leave"`
}

type Appointment struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	AvatarBase64 *string `json:"avatar_base64"`
	Specialty    string  `json:"specialty"`
	Time         string  `json:"time"`
	Date         string  `json:"date"`
}

type CalendarActivity struct {
	Time  string `json:"time"`
	Title string `json:"title"`
	Color string `json:"color"`
}
