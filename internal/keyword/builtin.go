package keyword

// English returns the default English keyword table. It is the
// canonical table used by tests and by drivers that do not ship their
// own language files.
func English() Table {
	return Table{
		Code:        "en",
		Name:        "English",
		Description: "Default English keyword table",
		Keywords: map[string]Kind{
			"function": Function, "if": If, "else": Else, "while": While,
			"for": For, "and": And, "or": Or, "not": Not, "move": Move,
			"borrow": Borrow, "inout": Inout, "is": Is, "var": Var,
			"val": Val, "struct": Struct, "enum": Enum, "return": Return,
			"break": Break, "continue": Continue, "loop": Loop,
			"match": Match, "null": Null, "true": True, "false": False,
			"print": Print, "in": In,
		},
	}
}

// Arabic returns the default Arabic keyword table, used to exercise the
// multi-script keyword catalog (spec §8 scenario S3).
func Arabic() Table {
	return Table{
		Code:        "ar",
		Name:        "Arabic",
		Description: "Default Arabic keyword table",
		Keywords: map[string]Kind{
			"دالة": Function, "إذا": If, "وإلا": Else, "بينما": While,
			"لكل": For, "و": And, "أو": Or, "ليس": Not, "انقل": Move,
			"استعر": Borrow, "داخل_خارج": Inout, "هو": Is, "متغير": Var,
			"ثابت": Val, "هيكل": Struct, "تعداد": Enum, "ارجع": Return,
			"اكسر": Break, "استمر": Continue, "حلقة": Loop,
			"طابق": Match, "فارغ": Null, "صحيح": True, "خطأ": False,
			"اطبع": Print, "في": In,
		},
	}
}
