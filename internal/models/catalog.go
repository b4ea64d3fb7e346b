package models

// Specialization is a track inside a major with its graduation credit requirement.
type Specialization struct {
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// Major is a degree major with its ministry code.
type Major struct {
	Name            string           `json:"name"`
	Code            string           `json:"code"`
	Specializations []Specialization `json:"specializations"`
}

// Program is a study programme (standard, partial English, special).
type Program struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Majors []Major `json:"majors"`
}

// AcademicPrograms is the university's published programme catalogue.
var AcademicPrograms = []Program{
	{
		ID:   "standard",
		Name: "Đại học chính quy chuẩn",
		Majors: []Major{
			{Name: "Tài chính – Ngân hàng", Code: "7340201", Specializations: []Specialization{
				{Name: "Tài chính", Credits: 123},
				{Name: "Ngân hàng", Credits: 123},
				{Name: "Tài chính và quản trị doanh nghiệp", Credits: 123},
				{Name: "Tài chính định lượng và quản trị rủi ro", Credits: 123},
			}},
			{Name: "Công nghệ tài chính", Code: "7340205", Specializations: []Specialization{{Name: "Công nghệ tài chính", Credits: 124}}},
			{Name: "Kế toán", Code: "7340301", Specializations: []Specialization{{Name: "Kế toán", Credits: 125}}},
			{Name: "Quản trị kinh doanh", Code: "7340101", Specializations: []Specialization{{Name: "Quản trị kinh doanh", Credits: 125}}},
			{Name: "Marketing", Code: "7340115", Specializations: []Specialization{{Name: "Marketing", Credits: 125}}},
			{Name: "Logistics và quản lý chuỗi cung ứng", Code: "7510605", Specializations: []Specialization{{Name: "Logistics và quản lý chuỗi cung ứng", Credits: 125}}},
			{Name: "Hệ thống thông tin quản lý", Code: "7340405", Specializations: []Specialization{{Name: "Hệ thống thông tin quản lý", Credits: 125}}},
			{Name: "Khoa học dữ liệu", Code: "7460108", Specializations: []Specialization{{Name: "Khoa học dữ liệu", Credits: 125}}},
			{Name: "Kinh tế quốc tế", Code: "7310106", Specializations: []Specialization{
				{Name: "Kinh tế quốc tế", Credits: 122},
				{Name: "Kinh tế và kinh doanh số", Credits: 122},
			}},
			{Name: "Kinh doanh quốc tế", Code: "7340120", Specializations: []Specialization{{Name: "Kinh doanh quốc tế", Credits: 122}}},
			{Name: "Luật Kinh tế", Code: "7380107", Specializations: []Specialization{{Name: "Luật Kinh tế", Credits: 121}}},
			{Name: "Ngôn ngữ Anh", Code: "7220201", Specializations: []Specialization{
				{Name: "Tiếng Anh thương mại", Credits: 125},
				{Name: "Song ngữ Anh - Trung", Credits: 125},
			}},
			{Name: "Kiểm toán", Code: "7340302", Specializations: []Specialization{{Name: "Kiểm toán", Credits: 125}}},
			{Name: "Luật", Code: "7380101", Specializations: []Specialization{{Name: "Luật", Credits: 121}}},
			{Name: "Trí tuệ nhân tạo", Code: "7480107", Specializations: []Specialization{{Name: "Trí tuệ nhân tạo", Credits: 125}}},
			{Name: "Thương mại điện tử", Code: "7340122", Specializations: []Specialization{{Name: "Thương mại điện tử", Credits: 125}}},
		},
	},
	{
		ID:   "tabp",
		Name: "ĐHCQ Tiếng Anh bán phần (TABP)",
		Majors: []Major{
			{Name: "Tài chính – Ngân hàng (TABP)", Code: "7340201_TABP", Specializations: []Specialization{{Name: "Tài chính – Ngân hàng (TABP)", Credits: 124}}},
			{Name: "Quản trị kinh doanh (TABP)", Code: "7340101_TABP", Specializations: []Specialization{{Name: "Quản trị kinh doanh (TABP)", Credits: 123}}},
			{Name: "Kế toán (TABP)", Code: "7340301_TABP", Specializations: []Specialization{{Name: "Kế toán (TABP)", Credits: 123}}},
			{Name: "Kinh tế quốc tế (TABP)", Code: "7310106_TABP", Specializations: []Specialization{{Name: "Kinh tế quốc tế (TABP)", Credits: 122}}},
			{Name: "Hệ thống thông tin quản lý (TABP)", Code: "7340405_TABP", Specializations: []Specialization{{Name: "Hệ thống thông tin quản lý (TABP)", Credits: 125}}},
			{Name: "Luật kinh tế (TABP)", Code: "7380107_TABP", Specializations: []Specialization{{Name: "Luật kinh tế (TABP)", Credits: 124}}},
		},
	},
	{
		ID:   "special",
		Name: "ĐHCQ Chương trình đặc biệt",
		Majors: []Major{
			{Name: "Ngôn ngữ Anh (CTĐB)", Code: "7340201_CTDB", Specializations: []Specialization{{Name: "Ngôn ngữ Anh (CTĐB)", Credits: 125}}},
		},
	},
}
