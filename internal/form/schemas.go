package form

func ptr(v float64) *float64 { return &v }

var statusActive = []string{"active", "inactive"}

var imageTypes = []string{"image/"}

var Student = Schema{
	Entity: "student",
	Fields: []Field{
		Text{Base: Base{Name: "name", Title: "Name", Required: true}, MaxLen: 120},
		Text{Base: Base{Name: "email", Title: "Email", Required: true}, Rule: "email"},
		Text{Base: Base{Name: "phone", Title: "Phone"}, MaxLen: 20},
		Text{Base: Base{Name: "class", Title: "Class", Required: true}},
		Text{Base: Base{Name: "school", Title: "School"}},
		Dropdown{Base: Base{Name: "status", Title: "Status"}, Options: statusActive},
		Date{Base: Base{Name: "dateOfBirth", Title: "Date of birth"}},
		File{Base: Base{Name: "avatar", Title: "Avatar"}, Accept: imageTypes, MaxSize: 2 << 20},
	},
}

var School = Schema{
	Entity: "school",
	Fields: []Field{
		Text{Base: Base{Name: "name", Title: "Name", Required: true}, MaxLen: 160},
		Textarea{Base: Base{Name: "address", Title: "Address"}, MaxLen: 500},
		Text{Base: Base{Name: "contactEmail", Title: "Contact email"}, Rule: "email"},
		Dropdown{Base: Base{Name: "status", Title: "Status"}, Options: statusActive},
		File{Base: Base{Name: "logo", Title: "Logo"}, Accept: imageTypes, MaxSize: 2 << 20},
	},
}

var Class = Schema{
	Entity: "class",
	Fields: []Field{
		Text{Base: Base{Name: "name", Title: "Name", Required: true}, MaxLen: 60},
		Number{Base: Base{Name: "grade", Title: "Grade", Required: true}, Integer: true, Min: ptr(1), Max: ptr(12)},
		Text{Base: Base{Name: "school", Title: "School"}},
	},
}

var Membership = Schema{
	Entity: "membership",
	Fields: []Field{
		Text{Base: Base{Name: "name", Title: "Name", Required: true}, MaxLen: 80},
		Number{Base: Base{Name: "price", Title: "Price", Required: true}, Min: ptr(0)},
		Number{Base: Base{Name: "durationMonths", Title: "Duration", Required: true}, Integer: true, Min: ptr(1), Max: ptr(36)},
		Dropdown{Base: Base{Name: "status", Title: "Status"}, Options: statusActive},
	},
}

var Worksheet = Schema{
	Entity: "worksheet",
	Fields: []Field{
		Text{Base: Base{Name: "title", Title: "Title", Required: true}, MaxLen: 160},
		Text{Base: Base{Name: "subject", Title: "Subject", Required: true}},
		Text{Base: Base{Name: "class", Title: "Class", Required: true}},
		File{Base: Base{Name: "file", Title: "Worksheet file", Required: true}, Accept: []string{"application/pdf", "image/"}, MaxSize: 10 << 20},
	},
}

var TicketReply = Schema{
	Entity: "ticket reply",
	Fields: []Field{
		Textarea{Base: Base{Name: "message", Title: "Message", Required: true}, MaxLen: 4000},
		Dropdown{Base: Base{Name: "status", Title: "Status"}, Options: []string{"open", "in_progress", "resolved"}},
	},
}
