package target

// Windows tables reuse Linux-style syscall sequencing with placeholder
// numbers; no native Windows ABI is modelled. Mac triples are not tabulated.
var builtinTables = map[Triple]map[Role]string{
	{Width64, X86, Linux}: {
		RoleMov:          "mov",
		RoleArg0:         "rsi",
		RoleDestIndex:    "rbx",
		RoleWriteSyscall: "1",
		RoleSyscallInstr: "syscall",
		RoleI32:          "ebx",
		RoleI64:          "rbx",
		RoleF32:          "xmm0",
		RoleF64:          "xmm1",
		RoleRSI:          "rsi",
		RoleRDI:          "rdi",
		RoleRSP:          "rsp",
		RoleRBP:          "rbp",
		RoleRAX:          "rax",
		RoleRBX:          "rbx",
		RoleRCX:          "rcx",
		RoleRDX:          "rdx",
		RoleExitSyscall:  "60",
	},
	// Legacy i386 numbering: write=4, exit=1 via int 0x80.
	{Width32, X86, Linux}: {
		RoleMov:          "mov",
		RoleArg0:         "esi",
		RoleDestIndex:    "ebx",
		RoleWriteSyscall: "4",
		RoleSyscallInstr: "int 0x80",
		RoleI32:          "ebx",
		RoleI64:          "ebx",
		RoleF32:          "xmm0",
		RoleF64:          "xmm1",
		RoleRSI:          "esi",
		RoleRDI:          "edi",
		RoleRSP:          "esp",
		RoleRBP:          "ebp",
		RoleRAX:          "eax",
		RoleRBX:          "ebx",
		RoleRCX:          "ecx",
		RoleRDX:          "edx",
		RoleExitSyscall:  "1",
	},
	{Width64, ARM, Linux}: {
		RoleMov:          "mov",
		RoleArg0:         "x0",
		RoleDestIndex:    "x1",
		RoleWriteSyscall: "64",
		RoleSyscallInstr: "svc 0",
		RoleI32:          "w1",
		RoleI64:          "x1",
		RoleF32:          "s0",
		RoleF64:          "d0",
		RoleRSI:          "x0",
		RoleRDI:          "x1",
		RoleRSP:          "sp",
		RoleRBP:          "fp",
		RoleRAX:          "x8",
		RoleRBX:          "x1",
		RoleRCX:          "x3",
		RoleRDX:          "x2",
		RoleExitSyscall:  "60",
	},
	{Width32, ARM, Linux}: {
		RoleMov:          "mov",
		RoleArg0:         "r0",
		RoleDestIndex:    "r1",
		RoleWriteSyscall: "4",
		RoleSyscallInstr: "svc 0",
		RoleI32:          "r1",
		RoleI64:          "r2",
		RoleF32:          "s0",
		RoleF64:          "d0",
		RoleRSI:          "r0",
		RoleRDI:          "r1",
		RoleRSP:          "sp",
		RoleRBP:          "fp",
		RoleRAX:          "r7",
		RoleRBX:          "r3",
		RoleRCX:          "r3",
		RoleRDX:          "r2",
		RoleExitSyscall:  "1",
	},
	{Width64, X86, Windows}: {
		RoleMov:          "mov",
		RoleArg0:         "rsi",
		RoleDestIndex:    "rbx",
		RoleWriteSyscall: "0x80",
		RoleSyscallInstr: "syscall",
		RoleI32:          "ebx",
		RoleI64:          "rbx",
		RoleF32:          "xmm0",
		RoleF64:          "xmm1",
		RoleRSI:          "rsi",
		RoleRDI:          "rdi",
		RoleRSP:          "rsp",
		RoleRBP:          "rbp",
		RoleRAX:          "rax",
		RoleRBX:          "rbx",
		RoleRCX:          "rcx",
		RoleRDX:          "rdx",
		RoleExitSyscall:  "0x0",
	},
	{Width32, X86, Windows}: {
		RoleMov:          "mov",
		RoleArg0:         "esi",
		RoleDestIndex:    "ebx",
		RoleWriteSyscall: "0x80",
		RoleSyscallInstr: "syscall",
		RoleI32:          "ebx",
		RoleI64:          "ebx",
		RoleF32:          "xmm0",
		RoleF64:          "xmm1",
		RoleRSI:          "esi",
		RoleRDI:          "edi",
		RoleRSP:          "esp",
		RoleRBP:          "ebp",
		RoleRAX:          "eax",
		RoleRBX:          "ebx",
		RoleRCX:          "ecx",
		RoleRDX:          "edx",
		RoleExitSyscall:  "0x0",
	},
	{Width64, ARM, Windows}: {
		RoleMov:          "mov",
		RoleArg0:         "r0",
		RoleDestIndex:    "r1",
		RoleWriteSyscall: "0x80",
		RoleSyscallInstr: "svc 0",
		RoleI32:          "r1",
		RoleI64:          "r2",
		RoleF32:          "s0",
		RoleF64:          "d0",
		RoleRSI:          "r0",
		RoleRDI:          "r1",
		RoleRSP:          "sp",
		RoleRBP:          "fp",
		RoleRAX:          "r7",
		RoleRBX:          "r3",
		RoleRCX:          "r3",
		RoleRDX:          "r2",
		RoleExitSyscall:  "0x1",
	},
	{Width32, ARM, Windows}: {
		RoleMov:          "mov",
		RoleArg0:         "r0",
		RoleDestIndex:    "r1",
		RoleWriteSyscall: "0x80",
		RoleSyscallInstr: "svc 0",
		RoleI32:          "r1",
		RoleI64:          "r2",
		RoleF32:          "s0",
		RoleF64:          "d0",
		RoleRSI:          "r0",
		RoleRDI:          "r1",
		RoleRSP:          "sp",
		RoleRBP:          "fp",
		RoleRAX:          "r7",
		RoleRBX:          "r3",
		RoleRCX:          "r3",
		RoleRDX:          "r2",
		RoleExitSyscall:  "0x1",
	},
}
