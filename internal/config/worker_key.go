package config

type WorkerKeyStruct struct {
	GradeExamsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	GradeExamsQueue: "grade_exams_queue",
}
