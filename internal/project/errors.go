package project

import "errors"

// ErrInfeasibleNetwork — сеть работ не может быть спланирована:
// цикл предшествования, отсутствие/дублирование источника или стока,
// потребность работы выше мощности ресурса.
// Все нарушения, найденные Validate, оборачивают эту ошибку.
var ErrInfeasibleNetwork = errors.New("project: недопустимая сеть работ")

// ErrInvalidSchedule — некорректные входные данные для построения расписания.
var ErrInvalidSchedule = errors.New("project: некорректные данные для расписания")
